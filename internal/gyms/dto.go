package gyms

import (
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

// GymDTO is the transport shape for a gym profile.
type GymDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	AdminEmail string    `json:"admin_email"`
	Phone      *string   `json:"phone,omitempty"`
	Address    *string   `json:"address,omitempty"`
	City       *string   `json:"city,omitempty"`
	Country    *string   `json:"country,omitempty"`
	Amenities  []string  `json:"amenities"`
	OwnerID    uuid.UUID `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateGymDTO holds the data required by the repo to persist a new gym.
type CreateGymDTO struct {
	Name       string
	AdminEmail string
	Phone      *string
	Address    *string
	City       *string
	Country    *string
	Amenities  []string
	OwnerID    uuid.UUID
}

func FromModel(g *models.Gym) *GymDTO {
	if g == nil {
		return nil
	}

	amenities := make([]string, len(g.Amenities))
	copy(amenities, g.Amenities)

	return &GymDTO{
		ID:         g.ID,
		Name:       g.Name,
		AdminEmail: g.AdminEmail,
		Phone:      g.Phone,
		Address:    g.Address,
		City:       g.City,
		Country:    g.Country,
		Amenities:  amenities,
		OwnerID:    g.OwnerID,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

func (c CreateGymDTO) ToModel() *models.Gym {
	return &models.Gym{
		Name:       c.Name,
		AdminEmail: c.AdminEmail,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		Country:    c.Country,
		Amenities:  append([]string(nil), c.Amenities...),
		OwnerID:    c.OwnerID,
	}
}
