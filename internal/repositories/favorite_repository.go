package repositories

import (
	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	ToggleFavorite(userID uint, postID string) (bool, error)
	IsFavorite(userID uint, postID string) (bool, error)
	GetFavoritePostIDs(userID uint) ([]string, error)
}

type PostgresFavoriteRepository struct {
	db *gorm.DB
}

func NewPostgresFavoriteRepository(db *gorm.DB) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{db: db}
}

func (r *PostgresFavoriteRepository) ToggleFavorite(userID uint, postID string) (bool, error) {
	var favorite bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		favorite = true
		return tx.Create(&models.Favorite{UserID: userID, PostID: postID}).Error
	})
	if err != nil {
		return false, translateInsert(err, "Post is already in favorites", "", "toggle favorite")
	}
	return favorite, nil
}

func (r *PostgresFavoriteRepository) IsFavorite(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	if err != nil {
		return false, apperrors.Storage(err, "check favorite")
	}
	return count > 0, nil
}

func (r *PostgresFavoriteRepository) GetFavoritePostIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Favorite{}).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Pluck("post_id", &ids).Error
	if err != nil {
		return nil, apperrors.Storage(err, "list favorites")
	}
	return ids, nil
}
