package dto

import (
	"time"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// StudentLoginRequest is the payload of the student login path.
type StudentLoginRequest struct {
	RollNumber string `json:"roll_number" validate:"required,max=50"`
	Password   string `json:"password" validate:"required,max=128"`
}

// StaffLoginRequest is the payload of the staff login path.
type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// RefreshRequest carries a refresh token for rotation or logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserSummary is the public view of an authenticated account.
type UserSummary struct {
	ID        uint    `json:"id"`
	DisplayID string  `json:"display_id"`
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Role      string  `json:"role"`
}

// NewUserSummary maps a user and resolved role into the public view.
func NewUserSummary(user models.User, role models.Role) UserSummary {
	return UserSummary{
		ID:        user.ID,
		DisplayID: user.Login,
		Name:      user.FullName(),
		Email:     user.Email,
		Role:      string(role),
	}
}

// LoginResponse is returned by both login paths.
type LoginResponse struct {
	AccessToken      string      `json:"access_token"`
	RefreshToken     string      `json:"refresh_token"`
	TokenType        string      `json:"token_type"`
	ExpiresAt        time.Time   `json:"expires_at"`
	RefreshExpiresAt time.Time   `json:"refresh_expires_at"`
	User             UserSummary `json:"user"`
	Department       string      `json:"department,omitempty"`
	RollNumber       string      `json:"roll_number,omitempty"`
}

// RefreshResponse carries a newly issued access token.
type RefreshResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
