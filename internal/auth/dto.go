package auth

import (
	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint. The
// identifier may be a username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// GymSummary describes the gym metadata returned after login.
type GymSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// LoginResponse contains the tokens, user, and gym list produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Gyms         []GymSummary   `json:"gyms"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the expired access token plus its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
