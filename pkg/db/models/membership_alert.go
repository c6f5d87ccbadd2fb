package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

// MembershipAlert is derived state: at most one row per member, rebuilt from
// member rows whenever memberships change.
type MembershipAlert struct {
	MemberID      uuid.UUID       `gorm:"column:member_id;type:uuid;primaryKey"`
	GymID         uuid.UUID       `gorm:"column:gym_id;type:uuid;not null;index"`
	MemberName    string          `gorm:"column:member_name;not null"`
	AlertType     enums.AlertType `gorm:"column:alert_type;not null"`
	DaysRemaining int             `gorm:"column:days_remaining;not null"`
	MembershipEnd time.Time       `gorm:"column:membership_end;type:date;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
