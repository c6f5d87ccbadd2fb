package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	ActiveGymID *uuid.UUID
	Role        enums.StaffRole
	Language    enums.Language
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      uuid.UUID       `json:"user_id"`
	ActiveGymID *uuid.UUID      `json:"active_gym_id,omitempty"`
	Role        enums.StaffRole `json:"role"`
	Language    enums.Language  `json:"language,omitempty"`
	jwt.RegisteredClaims
}
