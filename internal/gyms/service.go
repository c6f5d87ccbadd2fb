package gyms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/internal/memberships"
	"github.com/gymdesk/gymdesk-backend/internal/users"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/security"
)

const tempPasswordLength = 12

// UpdateGymInput is the full-replacement payload for the gym profile.
type UpdateGymInput struct {
	Name       string   `json:"name" validate:"required"`
	AdminEmail string   `json:"admin_email" validate:"required,email"`
	Phone      *string  `json:"phone,omitempty"`
	Address    *string  `json:"address,omitempty"`
	City       *string  `json:"city,omitempty"`
	Country    *string  `json:"country,omitempty"`
	Amenities  []string `json:"amenities"`
}

// InviteStaffInput describes a staff invitation.
type InviteStaffInput struct {
	Username string          `json:"username" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Role     enums.StaffRole `json:"role" validate:"required"`
}

// InviteStaffResult returns the invited account plus a one-time temporary
// password when a fresh user record was created.
type InviteStaffResult struct {
	User         *users.UserDTO             `json:"user"`
	Membership   *memberships.MembershipDTO `json:"membership"`
	TempPassword string                     `json:"temp_password,omitempty"`
}

// Service defines gym profile and staff management behavior.
type Service interface {
	Get(ctx context.Context, gymID uuid.UUID) (*GymDTO, error)
	Update(ctx context.Context, gymID uuid.UUID, input UpdateGymInput) (*GymDTO, error)
	ListStaff(ctx context.Context, gymID uuid.UUID) ([]memberships.GymUserDTO, error)
	InviteStaff(ctx context.Context, gymID, inviterID uuid.UUID, input InviteStaffInput) (*InviteStaffResult, error)
	RemoveStaff(ctx context.Context, gymID, targetUserID uuid.UUID) error
}

type gymRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Gym, error)
	Update(ctx context.Context, gym *models.Gym) error
}

type staffRepository interface {
	ListGymUsers(ctx context.Context, gymID uuid.UUID) ([]memberships.GymUserDTO, error)
	GetMembership(ctx context.Context, userID, gymID uuid.UUID) (*models.GymMembership, error)
	CreateMembership(ctx context.Context, gymID, userID uuid.UUID, role enums.StaffRole, invitedBy *uuid.UUID, status enums.StaffStatus) (*models.GymMembership, error)
	DeleteMembership(ctx context.Context, membershipID uuid.UUID) error
	CountActiveManagers(ctx context.Context, gymID uuid.UUID) (int64, error)
}

type userDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type service struct {
	gyms        gymRepository
	staff       staffRepository
	users       userDirectory
	passwordCfg config.PasswordConfig
}

// NewService constructs a gym service with the provided dependencies.
func NewService(gyms gymRepository, staff staffRepository, userDir userDirectory, passwordCfg config.PasswordConfig) (Service, error) {
	if gyms == nil {
		return nil, fmt.Errorf("gym repository is required")
	}
	if staff == nil {
		return nil, fmt.Errorf("staff repository is required")
	}
	if userDir == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	return &service{
		gyms:        gyms,
		staff:       staff,
		users:       userDir,
		passwordCfg: passwordCfg,
	}, nil
}

func (s *service) Get(ctx context.Context, gymID uuid.UUID) (*GymDTO, error) {
	gym, err := s.gyms.FindByID(ctx, gymID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gym not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gym")
	}
	return FromModel(gym), nil
}

func (s *service) Update(ctx context.Context, gymID uuid.UUID, input UpdateGymInput) (*GymDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.AdminEmail))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin_email must be a valid email address")
	}

	gym, err := s.gyms.FindByID(ctx, gymID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gym not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gym")
	}

	gym.Name = name
	gym.AdminEmail = email
	gym.Phone = input.Phone
	gym.Address = input.Address
	gym.City = input.City
	gym.Country = input.Country
	gym.Amenities = append([]string(nil), input.Amenities...)

	if err := s.gyms.Update(ctx, gym); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update gym")
	}
	return FromModel(gym), nil
}

func (s *service) ListStaff(ctx context.Context, gymID uuid.UUID) ([]memberships.GymUserDTO, error) {
	roster, err := s.staff.ListGymUsers(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list gym staff")
	}
	return roster, nil
}

func (s *service) InviteStaff(ctx context.Context, gymID, inviterID uuid.UUID, input InviteStaffInput) (*InviteStaffResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email must be a valid email address")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid staff role")
	}

	tempPassword := ""
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		// Existing account, only a membership is added.
	case errors.Is(err, gorm.ErrRecordNotFound):
		tempPassword, err = security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
		}
		hash, err := security.HashPassword(tempPassword, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temp password")
		}
		user, err = s.users.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invited user")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup invited user")
	}

	if _, err := s.staff.GetMembership(ctx, user.ID, gymID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member of this gym")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing membership")
	}

	membership, err := s.staff.CreateMembership(ctx, gymID, user.ID, input.Role, &inviterID, enums.StaffStatusInvited)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff membership")
	}

	return &InviteStaffResult{
		User:         users.FromModel(user),
		Membership:   memberships.ToDTO(membership),
		TempPassword: tempPassword,
	}, nil
}

func (s *service) RemoveStaff(ctx context.Context, gymID, targetUserID uuid.UUID) error {
	membership, err := s.staff.GetMembership(ctx, targetUserID, gymID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "staff membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff membership")
	}

	if membership.Role == enums.StaffRoleManager && membership.Status == enums.StaffStatusActive {
		managers, err := s.staff.CountActiveManagers(ctx, gymID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count managers")
		}
		if managers <= 1 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot remove the last active manager")
		}
	}

	if err := s.staff.DeleteMembership(ctx, membership.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete staff membership")
	}
	return nil
}
