package membershiptypes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

// MembershipTypeDTO is the API projection of a registry row.
type MembershipTypeDTO struct {
	ID           uuid.UUID       `json:"id"`
	GymID        uuid.UUID       `json:"gym_id"`
	Name         string          `json:"name"`
	DurationDays int             `json:"duration_days"`
	Price        decimal.Decimal `json:"price"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// FromModel converts a persistence row into the API shape.
func FromModel(mt *models.MembershipType) *MembershipTypeDTO {
	if mt == nil {
		return nil
	}
	return &MembershipTypeDTO{
		ID:           mt.ID,
		GymID:        mt.GymID,
		Name:         mt.Name,
		DurationDays: mt.DurationDays,
		Price:        mt.Price,
		IsActive:     mt.IsActive,
		CreatedAt:    mt.CreatedAt,
		UpdatedAt:    mt.UpdatedAt,
	}
}

// FromModels converts a slice of rows.
func FromModels(rows []models.MembershipType) []MembershipTypeDTO {
	out := make([]MembershipTypeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
