package repositories

import (
	"testing"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The relational repositories run against in-memory SQLite. Queries stick to the SQL
// subset both engines share.
type RelationalRepoSuite struct {
	suite.Suite
	db *gorm.DB
}

func TestRelationalRepoSuite(t *testing.T) {
	suite.Run(t, new(RelationalRepoSuite))
}

func (s *RelationalRepoSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Comment{},
		&models.Follow{},
		&models.Bookmark{},
		&models.Favorite{},
	))
	s.db = db
}

func (s *RelationalRepoSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *RelationalRepoSuite) createUser(name string) *models.User {
	u := &models.User{Name: name, Username: name, Email: name + "@example.com"}
	s.Require().NoError(NewPostgresUserRepository(s.db).CreateUser(u))
	return u
}

func (s *RelationalRepoSuite) TestUserLookups() {
	repo := NewPostgresUserRepository(s.db)
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	got, err := repo.GetUserByEmail("alice@example.com")
	s.Require().NoError(err)
	s.Equal(alice.ID, got.ID)

	got, err = repo.GetUserByUsername("bob")
	s.Require().NoError(err)
	s.Equal(bob.ID, got.ID)

	_, err = repo.GetUserByID(9999)
	s.True(errors.Is(err, apperrors.ErrNotFound))

	byID, err := repo.GetUsersByIDs([]uint{alice.ID, bob.ID, 9999})
	s.Require().NoError(err)
	s.Len(byID, 2)
	s.Equal("bob", byID[bob.ID].Username)

	found, err := repo.SearchUsers("ALI", 10)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(alice.ID, found[0].ID)
}

func (s *RelationalRepoSuite) TestCreateUserDuplicateEmailConflicts() {
	repo := NewPostgresUserRepository(s.db)
	s.createUser("alice")

	err := repo.CreateUser(&models.User{Name: "other", Username: "other", Email: "alice@example.com"})
	s.True(errors.Is(err, apperrors.ErrConflict))
	s.Equal(409, apperrors.StatusOf(err))
}

func (s *RelationalRepoSuite) TestAdjustFollowCounts() {
	repo := NewPostgresUserRepository(s.db)
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	s.Require().NoError(repo.AdjustFollowCounts(alice.ID, bob.ID, 1))

	a, _ := repo.GetUserByID(alice.ID)
	b, _ := repo.GetUserByID(bob.ID)
	s.Equal(1, a.FollowingCount)
	s.Equal(1, b.FollowersCount)

	s.Require().NoError(repo.AdjustFollowCounts(alice.ID, bob.ID, -1))
	b, _ = repo.GetUserByID(bob.ID)
	s.Equal(0, b.FollowersCount)
}

func (s *RelationalRepoSuite) TestLikes() {
	repo := NewPostgresLikeRepository(s.db)
	alice := s.createUser("alice")
	postID := "65a1b2c3d4e5f6a7b8c9d0e1"

	s.Require().NoError(repo.CreateLike(&models.Like{PostID: postID, UserID: alice.ID}))

	liked, err := repo.HasUserLikedPost(postID, alice.ID)
	s.Require().NoError(err)
	s.True(liked)

	count, err := repo.GetLikesCountByPostID(postID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	s.Require().NoError(repo.DeleteLike(postID, alice.ID))
	err = repo.DeleteLike(postID, alice.ID)
	s.True(errors.Is(err, apperrors.ErrNotFound))

	// the unique (post, user) index turns a racing second like into a conflict
	s.Require().NoError(repo.CreateLike(&models.Like{PostID: postID, UserID: alice.ID}))
	err = repo.CreateLike(&models.Like{PostID: postID, UserID: alice.ID})
	s.True(errors.Is(err, apperrors.ErrConflict))
	s.False(errors.Is(err, apperrors.ErrStorage))
	s.Equal(409, apperrors.StatusOf(err))
}

func (s *RelationalRepoSuite) TestFollows() {
	repo := NewPostgresFollowRepository(s.db)
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	carol := s.createUser("carol")

	s.Require().NoError(repo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	s.Require().NoError(repo.CreateFollow(&models.Follow{FollowerID: carol.ID, FollowingID: bob.ID}))

	following, err := repo.IsFollowing(alice.ID, bob.ID)
	s.Require().NoError(err)
	s.True(following)

	followers, err := repo.GetFollowers(bob.ID)
	s.Require().NoError(err)
	s.Len(followers, 2)

	followed, err := repo.GetFollowing(alice.ID)
	s.Require().NoError(err)
	s.Require().Len(followed, 1)
	s.Equal(bob.ID, followed[0].ID)

	err = repo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	s.True(errors.Is(err, apperrors.ErrConflict))
	s.Equal("Already following this user", apperrors.PublicMessage(err))

	s.Require().NoError(repo.DeleteFollow(alice.ID, bob.ID))
	s.True(errors.Is(repo.DeleteFollow(alice.ID, bob.ID), apperrors.ErrNotFound))
}

func (s *RelationalRepoSuite) TestConnectionsAndSuggestions() {
	repo := NewPostgresFollowRepository(s.db)
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	carol := s.createUser("carol")
	dave := s.createUser("dave")

	s.Require().NoError(repo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	s.Require().NoError(repo.CreateFollow(&models.Follow{FollowerID: carol.ID, FollowingID: alice.ID}))
	s.Require().NoError(repo.CreateFollow(&models.Follow{FollowerID: bob.ID, FollowingID: dave.ID}))

	ids := func(users []models.User) []uint {
		out := make([]uint, len(users))
		for i, u := range users {
			out[i] = u.ID
		}
		return out
	}

	partners, err := repo.GetConnections(alice.ID, "")
	s.Require().NoError(err)
	s.ElementsMatch([]uint{bob.ID, carol.ID}, ids(partners))

	partners, err = repo.GetConnections(alice.ID, "BO")
	s.Require().NoError(err)
	s.Equal([]uint{bob.ID}, ids(partners))

	partners, err = repo.GetConnections(alice.ID, "dave")
	s.Require().NoError(err)
	s.Empty(partners)

	suggested, err := repo.GetSuggestions(alice.ID, 5)
	s.Require().NoError(err)
	s.ElementsMatch([]uint{carol.ID, dave.ID}, ids(suggested))

	suggested, err = repo.GetSuggestions(alice.ID, 1)
	s.Require().NoError(err)
	s.Len(suggested, 1)
}

func (s *RelationalRepoSuite) TestBookmarkToggle() {
	repo := NewPostgresBookmarkRepository(s.db)
	alice := s.createUser("alice")
	first, second := "65a1b2c3d4e5f6a7b8c9d0e1", "65a1b2c3d4e5f6a7b8c9d0e2"

	on, err := repo.ToggleBookmark(alice.ID, first)
	s.Require().NoError(err)
	s.True(on)
	_, err = repo.ToggleBookmark(alice.ID, second)
	s.Require().NoError(err)

	ids, err := repo.GetBookmarkedPostIDs(alice.ID)
	s.Require().NoError(err)
	s.Equal([]string{second, first}, ids)

	off, err := repo.ToggleBookmark(alice.ID, first)
	s.Require().NoError(err)
	s.False(off)

	saved, err := repo.IsBookmarked(alice.ID, first)
	s.Require().NoError(err)
	s.False(saved)
}

func (s *RelationalRepoSuite) TestFavoriteToggle() {
	repo := NewPostgresFavoriteRepository(s.db)
	alice := s.createUser("alice")
	postID := "65a1b2c3d4e5f6a7b8c9d0e1"

	on, err := repo.ToggleFavorite(alice.ID, postID)
	s.Require().NoError(err)
	s.True(on)

	fav, err := repo.IsFavorite(alice.ID, postID)
	s.Require().NoError(err)
	s.True(fav)

	ids, err := repo.GetFavoritePostIDs(alice.ID)
	s.Require().NoError(err)
	s.Equal([]string{postID}, ids)

	off, err := repo.ToggleFavorite(alice.ID, postID)
	s.Require().NoError(err)
	s.False(off)
}

func (s *RelationalRepoSuite) TestCommentsOldestFirst() {
	repo := NewPostgresCommentRepository(s.db)
	alice := s.createUser("alice")
	postID := "65a1b2c3d4e5f6a7b8c9d0e1"

	for _, text := range []string{"first", "second", "third"} {
		s.Require().NoError(repo.CreateComment(&models.Comment{PostID: postID, UserID: alice.ID, Content: text}))
	}

	comments, err := repo.GetCommentsByPostID(postID)
	s.Require().NoError(err)
	s.Require().Len(comments, 3)
	s.Equal("first", comments[0].Content)
	s.Equal("third", comments[2].Content)

	_, err = repo.GetCommentByID(9999)
	s.True(errors.Is(err, apperrors.ErrNotFound))
}
