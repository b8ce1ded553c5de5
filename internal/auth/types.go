package auth

import "time"

// User is the persisted account row. Email is the partition key.
type User struct {
	UserID       string    `dynamodbav:"user_id" json:"user_id"`
	Email        string    `dynamodbav:"email" json:"email"`
	Name         string    `dynamodbav:"name" json:"name"`
	PasswordHash string    `dynamodbav:"password_hash" json:"-"`
	Role         string    `dynamodbav:"role" json:"role"`
	CreatedAt    time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt    time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token plus the public user fields.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
