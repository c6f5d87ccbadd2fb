package gyms

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

// Repository exposes gym persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new gym and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateGymDTO) (*models.Gym, error) {
	gym := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(gym).Error; err != nil {
		return nil, err
	}
	return gym, nil
}

// FindByID loads a gym by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Gym, error) {
	var gym models.Gym
	if err := r.db.WithContext(ctx).First(&gym, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &gym, nil
}

// ListIDs returns the IDs of every gym, used by scheduled maintenance work.
func (r *Repository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Gym{}).
		Order("created_at").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update saves the full gym row.
func (r *Repository) Update(ctx context.Context, gym *models.Gym) error {
	return r.db.WithContext(ctx).Save(gym).Error
}
