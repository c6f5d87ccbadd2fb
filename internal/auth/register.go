package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/internal/gyms"
	"github.com/gymdesk/gymdesk-backend/internal/memberships"
	"github.com/gymdesk/gymdesk-backend/internal/settings"
	"github.com/gymdesk/gymdesk-backend/internal/users"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	"github.com/gymdesk/gymdesk-backend/pkg/db"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/security"
)

// RegisterRequest contains the payload required for onboarding a new gym.
type RegisterRequest struct {
	Username string         `json:"username" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8"`
	Language enums.Language `json:"language,omitempty"`
	GymName  string         `json:"gym_name" validate:"required"`
	Phone    *string        `json:"phone,omitempty"`
	Address  *string        `json:"address,omitempty"`
	City     *string        `json:"city,omitempty"`
	Country  *string        `json:"country,omitempty"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	gymName := strings.TrimSpace(req.GymName)
	if gymName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "gym_name is required")
	}
	if req.Language != "" && !req.Language.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid language")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		gymRepo := gyms.NewRepository(tx)
		membershipRepo := memberships.NewRepository(tx)
		settingsRepo := settings.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if _, err := userRepo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			Language:     req.Language,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		gym, err := gymRepo.Create(ctx, gyms.CreateGymDTO{
			Name:       gymName,
			AdminEmail: email,
			Phone:      req.Phone,
			Address:    req.Address,
			City:       req.City,
			Country:    req.Country,
			OwnerID:    user.ID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gym")
		}

		if _, err := membershipRepo.CreateMembership(
			ctx,
			gym.ID,
			user.ID,
			enums.StaffRoleManager,
			nil,
			enums.StaffStatusActive,
		); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create membership")
		}

		if err := settingsRepo.Upsert(ctx, &models.GymSettings{
			GymID:              gym.ID,
			GymName:            gym.Name,
			AdminEmail:         gym.AdminEmail,
			AlertDays:          30,
			EmailNotifications: true,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gym settings")
		}

		return nil
	})
}
