package alerts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

// Repository handles membership alert persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to alert operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByGym returns all alerts for the gym, soonest expiry first.
func (r *Repository) ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipAlert, error) {
	var alerts []models.MembershipAlert
	if err := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Order("days_remaining ASC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// ReplaceForGym swaps the gym's alert set in one transaction: delete
// everything, insert the fresh rows.
func (r *Repository) ReplaceForGym(ctx context.Context, gymID uuid.UUID, alerts []models.MembershipAlert) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gym_id = ?", gymID).Delete(&models.MembershipAlert{}).Error; err != nil {
			return err
		}
		if len(alerts) == 0 {
			return nil
		}
		return tx.Create(&alerts).Error
	})
}

// Upsert writes a single member's alert, replacing any previous row.
func (r *Repository) Upsert(ctx context.Context, alert models.MembershipAlert) error {
	if alert.MemberID == uuid.Nil {
		return fmt.Errorf("alert member id is required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"gym_id", "member_name", "alert_type", "days_remaining", "membership_end"}),
		}).
		Create(&alert).Error
}

// DeleteByMember removes a member's alert row if present.
func (r *Repository) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Delete(&models.MembershipAlert{}).Error
}
