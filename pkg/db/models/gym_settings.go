package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GymSettings holds per-gym administration preferences plus the legacy flat
// plan prices kept for gyms that predate the membership-type registry.
type GymSettings struct {
	GymID              uuid.UUID       `gorm:"column:gym_id;type:uuid;primaryKey"`
	GymName            string          `gorm:"column:gym_name;not null"`
	AdminEmail         string          `gorm:"column:admin_email;not null"`
	AlertDays          int             `gorm:"column:alert_days;not null;default:30"`
	MonthlyPrice       decimal.Decimal `gorm:"column:monthly_price;type:numeric(12,2);not null;default:0"`
	QuarterlyPrice     decimal.Decimal `gorm:"column:quarterly_price;type:numeric(12,2);not null;default:0"`
	YearlyPrice        decimal.Decimal `gorm:"column:yearly_price;type:numeric(12,2);not null;default:0"`
	EmailNotifications bool            `gorm:"column:email_notifications;not null;default:true"`
	SMSNotifications   bool            `gorm:"column:sms_notifications;not null;default:false"`
	AutoRenewal        bool            `gorm:"column:auto_renewal;not null;default:false"`
	MemberLimit        int             `gorm:"column:member_limit;not null;default:0"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
