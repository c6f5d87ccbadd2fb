package members

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

// Repository handles member persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to member operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new member row.
func (r *Repository) Create(ctx context.Context, m *models.Member) error {
	if m == nil {
		return fmt.Errorf("member is required")
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID loads a member scoped to the gym.
func (r *Repository) FindByID(ctx context.Context, gymID, id uuid.UUID) (*models.Member, error) {
	var m models.Member
	if err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByGym returns all members of the gym, newest first. Status filtering is
// computed by the service, not the store.
func (r *Repository) ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.Member, error) {
	var rows []models.Member
	if err := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided member.
func (r *Repository) Update(ctx context.Context, m *models.Member) error {
	if m == nil {
		return fmt.Errorf("member is required")
	}
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete removes a member scoped to the gym.
func (r *Repository) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		Delete(&models.Member{}).Error
}

// CountByGym returns the number of members registered at the gym.
func (r *Repository) CountByGym(ctx context.Context, gymID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("gym_id = ?", gymID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByTypeRef returns how many members reference the given membership type.
func (r *Repository) CountByTypeRef(ctx context.Context, gymID uuid.UUID, ref string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("gym_id = ? AND membership_type_ref = ?", gymID, ref).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
