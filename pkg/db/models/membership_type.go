package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MembershipType is a per-gym registry entry describing a sellable plan.
type MembershipType struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GymID        uuid.UUID       `gorm:"column:gym_id;type:uuid;not null;index"`
	Name         string          `gorm:"column:name;not null"`
	DurationDays int             `gorm:"column:duration_days;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
