package membershiptypes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

// Repository handles membership type persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to membership type operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new registry row.
func (r *Repository) Create(ctx context.Context, mt *models.MembershipType) error {
	if mt == nil {
		return fmt.Errorf("membership type is required")
	}
	return r.db.WithContext(ctx).Create(mt).Error
}

// FindByID loads a registry row scoped to the gym.
func (r *Repository) FindByID(ctx context.Context, gymID, id uuid.UUID) (*models.MembershipType, error) {
	var mt models.MembershipType
	if err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		First(&mt).Error; err != nil {
		return nil, err
	}
	return &mt, nil
}

// ListByGym returns all registry rows for the gym, newest first.
func (r *Repository) ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipType, error) {
	var rows []models.MembershipType
	if err := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveByGym returns rows usable for new signups.
func (r *Repository) ListActiveByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipType, error) {
	var rows []models.MembershipType
	if err := r.db.WithContext(ctx).
		Where("gym_id = ? AND is_active = ?", gymID, true).
		Order("duration_days ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided row.
func (r *Repository) Update(ctx context.Context, mt *models.MembershipType) error {
	if mt == nil {
		return fmt.Errorf("membership type is required")
	}
	return r.db.WithContext(ctx).Save(mt).Error
}

// Delete removes a registry row scoped to the gym.
func (r *Repository) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		Delete(&models.MembershipType{}).Error
}
