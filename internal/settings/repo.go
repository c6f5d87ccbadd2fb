package settings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

// Repository handles gym settings persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to settings operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByGym loads the settings row for a gym.
func (r *Repository) FindByGym(ctx context.Context, gymID uuid.UUID) (*models.GymSettings, error) {
	var s models.GymSettings
	if err := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert writes the settings row, inserting or replacing on the gym key.
func (r *Repository) Upsert(ctx context.Context, s *models.GymSettings) error {
	if s == nil {
		return fmt.Errorf("settings are required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gym_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}
