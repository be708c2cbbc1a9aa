package dto

import (
	"time"

	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// ProfileUpdateRequest payload; the profile image travels as a multipart file.
type ProfileUpdateRequest struct {
	Name string `json:"name" form:"name"`
}

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	ProfileImage string      `json:"profile_image"`
}

// SessionResponse is returned on successful login.
type SessionResponse struct {
	User       UserResponse `json:"user"`
	ExpiresAt  time.Time    `json:"expires_at"`
	RedirectTo string       `json:"redirect_to"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		ProfileImage: user.ProfileImage,
	}
}
