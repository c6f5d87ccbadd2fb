package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

// GymSettingsDTO is the API projection of a gym's settings row.
type GymSettingsDTO struct {
	GymID              uuid.UUID       `json:"gym_id"`
	GymName            string          `json:"gym_name"`
	AdminEmail         string          `json:"admin_email"`
	AlertDays          int             `json:"alert_days"`
	MonthlyPrice       decimal.Decimal `json:"monthly_price"`
	QuarterlyPrice     decimal.Decimal `json:"quarterly_price"`
	YearlyPrice        decimal.Decimal `json:"yearly_price"`
	EmailNotifications bool            `json:"email_notifications"`
	SMSNotifications   bool            `json:"sms_notifications"`
	AutoRenewal        bool            `json:"auto_renewal"`
	MemberLimit        int             `json:"member_limit"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// FromModel converts a settings row into the API shape.
func FromModel(s *models.GymSettings) *GymSettingsDTO {
	if s == nil {
		return nil
	}
	return &GymSettingsDTO{
		GymID:              s.GymID,
		GymName:            s.GymName,
		AdminEmail:         s.AdminEmail,
		AlertDays:          s.AlertDays,
		MonthlyPrice:       s.MonthlyPrice,
		QuarterlyPrice:     s.QuarterlyPrice,
		YearlyPrice:        s.YearlyPrice,
		EmailNotifications: s.EmailNotifications,
		SMSNotifications:   s.SMSNotifications,
		AutoRenewal:        s.AutoRenewal,
		MemberLimit:        s.MemberLimit,
		UpdatedAt:          s.UpdatedAt,
	}
}
