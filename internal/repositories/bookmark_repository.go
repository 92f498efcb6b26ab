package repositories

import (
	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"gorm.io/gorm"
)

// BookmarkRepository stores per-user saved posts.
type BookmarkRepository interface {
	ToggleBookmark(userID uint, postID string) (bool, error)
	IsBookmarked(userID uint, postID string) (bool, error)
	GetBookmarkedPostIDs(userID uint) ([]string, error)
}

type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

// ToggleBookmark adds the bookmark if missing, removes it otherwise, and reports whether
// the post is bookmarked afterwards.
func (r *PostgresBookmarkRepository) ToggleBookmark(userID uint, postID string) (bool, error) {
	var bookmarked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		bookmarked = true
		return tx.Create(&models.Bookmark{UserID: userID, PostID: postID}).Error
	})
	if err != nil {
		return false, translateInsert(err, "Post is already bookmarked", "", "toggle bookmark")
	}
	return bookmarked, nil
}

func (r *PostgresBookmarkRepository) IsBookmarked(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	if err != nil {
		return false, apperrors.Storage(err, "check bookmark")
	}
	return count > 0, nil
}

// GetBookmarkedPostIDs returns post ids newest bookmark first.
func (r *PostgresBookmarkRepository) GetBookmarkedPostIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Pluck("post_id", &ids).Error
	if err != nil {
		return nil, apperrors.Storage(err, "list bookmarks")
	}
	return ids, nil
}
