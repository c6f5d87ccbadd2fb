package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

// Repository exposes staff membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUserGyms returns the gyms a user belongs to along with membership metadata.
func (r *Repository) ListUserGyms(ctx context.Context, userID uuid.UUID) ([]MembershipWithGym, error) {
	var rows []membershipWithGymRow

	err := r.db.WithContext(ctx).
		Model(&models.GymMembership{}).
		Select("gym_memberships.*, gyms.name AS gym_name").
		Joins("JOIN gyms ON gyms.id = gym_memberships.gym_id").
		Where("gym_memberships.user_id = ?", userID).
		Order("gyms.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return membershipRowsToDTO(rows), nil
}

// GetMembership retrieves a membership by user and gym.
func (r *Repository) GetMembership(ctx context.Context, userID, gymID uuid.UUID) (*models.GymMembership, error) {
	var membership models.GymMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND gym_id = ?", userID, gymID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetMembershipWithGym returns membership details joined with gym metadata.
func (r *Repository) GetMembershipWithGym(ctx context.Context, userID, gymID uuid.UUID) (*MembershipWithGym, error) {
	var row membershipWithGymRow
	err := r.db.WithContext(ctx).
		Model(&models.GymMembership{}).
		Select("gym_memberships.*, gyms.name AS gym_name").
		Joins("JOIN gyms ON gyms.id = gym_memberships.gym_id").
		Where("gym_memberships.user_id = ? AND gym_memberships.gym_id = ?", userID, gymID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	dto := membershipWithGymFromRow(row)
	return &dto, nil
}

// CreateMembership persists a new staff membership record.
func (r *Repository) CreateMembership(ctx context.Context, gymID, userID uuid.UUID, role enums.StaffRole, invitedBy *uuid.UUID, status enums.StaffStatus) (*models.GymMembership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid staff role %q", role)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid staff status %q", status)
	}

	membership := &models.GymMembership{
		GymID:           gymID,
		UserID:          userID,
		Role:            role,
		Status:          status,
		InvitedByUserID: invitedBy,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// UpdateStatus moves the membership into the provided status.
func (r *Repository) UpdateStatus(ctx context.Context, membershipID uuid.UUID, status enums.StaffStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid staff status %q", status)
	}
	return r.db.WithContext(ctx).
		Model(&models.GymMembership{}).
		Where("id = ?", membershipID).
		UpdateColumn("status", status).Error
}

// DeleteMembership removes the staff membership row.
func (r *Repository) DeleteMembership(ctx context.Context, membershipID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.GymMembership{}, "id = ?", membershipID).Error
}

// UserHasRole reports whether the user holds one of the provided roles for the gym.
func (r *Repository) UserHasRole(ctx context.Context, userID, gymID uuid.UUID, roles ...enums.StaffRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GymMembership{}).
		Where("user_id = ? AND gym_id = ? AND role IN ?", userID, gymID, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActiveManagers returns the number of active managers for a gym.
func (r *Repository) CountActiveManagers(ctx context.Context, gymID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GymMembership{}).
		Where("gym_id = ? AND role = ? AND status = ?", gymID, enums.StaffRoleManager, enums.StaffStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListGymUsers returns memberships for the gym along with user metadata.
func (r *Repository) ListGymUsers(ctx context.Context, gymID uuid.UUID) ([]GymUserDTO, error) {
	var rows []gymUserRow
	err := r.db.WithContext(ctx).
		Model(&models.GymMembership{}).
		Select("gym_memberships.*, users.username, users.email, users.last_login_at").
		Joins("JOIN users ON users.id = gym_memberships.user_id").
		Where("gym_memberships.gym_id = ?", gymID).
		Order("gym_memberships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return gymUsersFromRows(rows), nil
}
