package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

// GymMembership links a staff user with a gym and captures their role/status.
type GymMembership struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GymID           uuid.UUID         `gorm:"column:gym_id;type:uuid;not null"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Role            enums.StaffRole   `gorm:"column:role;not null"`
	Status          enums.StaffStatus `gorm:"column:status;not null"`
	InvitedByUserID *uuid.UUID        `gorm:"column:invited_by_user_id;type:uuid"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
