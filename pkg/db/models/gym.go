package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Gym represents the canonical tenant model.
type Gym struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string         `gorm:"column:name;not null"`
	AdminEmail string         `gorm:"column:admin_email;not null"`
	Phone      *string        `gorm:"column:phone"`
	Address    *string        `gorm:"column:address"`
	City       *string        `gorm:"column:city"`
	Country    *string        `gorm:"column:country"`
	Amenities  pq.StringArray `gorm:"column:amenities;type:text[]"`
	OwnerID    uuid.UUID      `gorm:"column:owner;type:uuid;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
