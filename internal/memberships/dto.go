package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

// MembershipDTO is the transport shape for a raw staff membership record.
type MembershipDTO struct {
	ID              uuid.UUID         `json:"id"`
	GymID           uuid.UUID         `json:"gym_id"`
	UserID          uuid.UUID         `json:"user_id"`
	Role            enums.StaffRole   `json:"role"`
	Status          enums.StaffStatus `json:"status"`
	InvitedByUserID *uuid.UUID        `json:"invited_by_user_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// MembershipWithGym includes basic gym metadata + membership info.
type MembershipWithGym struct {
	MembershipID    uuid.UUID         `json:"membership_id"`
	GymID           uuid.UUID         `json:"gym_id"`
	UserID          uuid.UUID         `json:"user_id"`
	GymName         string            `json:"gym_name"`
	Role            enums.StaffRole   `json:"role"`
	Status          enums.StaffStatus `json:"status"`
	InvitedByUserID *uuid.UUID        `json:"invited_by_user_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// GymUserDTO mixes membership metadata with the associated user profile for gym managers.
type GymUserDTO struct {
	MembershipID uuid.UUID         `json:"membership_id"`
	GymID        uuid.UUID         `json:"gym_id"`
	UserID       uuid.UUID         `json:"user_id"`
	Username     string            `json:"username"`
	Email        string            `json:"email"`
	Role         enums.StaffRole   `json:"role"`
	Status       enums.StaffStatus `json:"membership_status"`
	CreatedAt    time.Time         `json:"created_at"`
	LastLoginAt  *time.Time        `json:"last_login_at,omitempty"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.GymMembership) *MembershipDTO {
	if m == nil {
		return nil
	}

	return &MembershipDTO{
		ID:              m.ID,
		GymID:           m.GymID,
		UserID:          m.UserID,
		Role:            m.Role,
		Status:          m.Status,
		InvitedByUserID: copyUUIDPointer(m.InvitedByUserID),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func copyUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
