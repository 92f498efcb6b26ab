package repositories

import (
	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint) ([]models.User, error)
	GetFollowing(userID uint) ([]models.User, error)
	GetConnections(userID uint, query string) ([]models.User, error)
	GetSuggestions(userID uint, limit int) ([]models.User, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow creates a new follow edge in PostgreSQL
func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	return translateInsert(r.db.Create(follow).Error, "Already following this user", "", "create follow")
}

// DeleteFollow removes a follow edge; NotFound when it did not exist
func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uint) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return apperrors.Storage(res.Error, "delete follow")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Follow relationship not found")
	}
	return nil
}

// IsFollowing checks if followerID follows followingID
func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, apperrors.Storage(err, "check follow")
	}
	return count > 0, nil
}

// GetFollowers retrieves the users following userID
func (r *PostgresFollowRepository) GetFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)", r.followerIDs(userID)).Order("id").Find(&users).Error
	if err != nil {
		return nil, apperrors.Storage(err, "list followers")
	}
	return users, nil
}

// GetFollowing retrieves the users userID follows
func (r *PostgresFollowRepository) GetFollowing(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)", r.followingIDs(userID)).Order("id").Find(&users).Error
	if err != nil {
		return nil, apperrors.Storage(err, "list following")
	}
	return users, nil
}

// GetConnections retrieves followers and followings of userID, newest account first.
// A non-empty query narrows the result to usernames or emails containing it.
func (r *PostgresFollowRepository) GetConnections(userID uint, query string) ([]models.User, error) {
	tx := r.db.Where("id <> ?", userID).
		Where(r.db.Where("id IN (?)", r.followerIDs(userID)).Or("id IN (?)", r.followingIDs(userID)))
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	var users []models.User
	if err := tx.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, apperrors.Storage(err, "list connections")
	}
	return users, nil
}

// GetSuggestions retrieves up to limit users that userID does not follow yet
func (r *PostgresFollowRepository) GetSuggestions(userID uint, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id <> ?", userID).
		Where("id NOT IN (?)", r.followingIDs(userID)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Storage(err, "list suggestions")
	}
	return users, nil
}

func (r *PostgresFollowRepository) followerIDs(userID uint) *gorm.DB {
	return r.db.Model(&models.Follow{}).Select("follower_id").Where("following_id = ?", userID)
}

func (r *PostgresFollowRepository) followingIDs(userID uint) *gorm.DB {
	return r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID)
}
