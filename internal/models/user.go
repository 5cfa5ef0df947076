package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:150;uniqueIndex"`
	Email     string    `json:"email" gorm:"size:254;uniqueIndex"` // Ensure email is unique across all users
	FirstName string    `json:"first_name" gorm:"size:150"`
	LastName  string    `json:"last_name" gorm:"size:150"`
	Password  string    `json:"-"` // Store hashed password, ignore for JSON serialization
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"-"`
}

// CreateUserRequest defines the request body for user registration
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=150"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8"`
}

// UpdateAvatarRequest defines the request body for setting the avatar image
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
