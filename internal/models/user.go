package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type User struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"size:100"`
	Username       string         `json:"username" gorm:"size:50;uniqueIndex"`
	Email          string         `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password       string         `json:"-"`                        // bcrypt hash, empty for firebase-only accounts
	FirebaseUID    *string        `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	ProfilePicture string         `json:"profile_picture"`
	Bio            string         `json:"bio" gorm:"size:300"`
	FollowersCount int            `json:"followers_count" gorm:"default:0"`
	FollowingCount int            `json:"following_count" gorm:"default:0"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserCompact is the display projection embedded in notifications and live events.
type UserCompact struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name           string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio            string `json:"bio,omitempty" validate:"omitempty,max=300"`
	ProfilePicture string `json:"profile_picture,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
