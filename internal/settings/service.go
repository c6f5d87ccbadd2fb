package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/pkg/db"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
)

type settingsRepository interface {
	FindByGym(ctx context.Context, gymID uuid.UUID) (*models.GymSettings, error)
	Upsert(ctx context.Context, s *models.GymSettings) error
}

type gymReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Gym, error)
}

type typeRegistryRepo interface {
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipType, error)
	Create(ctx context.Context, mt *models.MembershipType) error
}

// Service exposes per-gym settings, including the one-time upgrade of legacy
// flat plan prices into membership-type registry rows.
type Service interface {
	Get(ctx context.Context, gymID uuid.UUID) (*GymSettingsDTO, error)
	Update(ctx context.Context, gymID uuid.UUID, input UpdateSettingsInput) (*GymSettingsDTO, error)
}

type service struct {
	repo  settingsRepository
	gyms  gymReader
	types typeRegistryRepo
	logg  *logger.Logger
}

// NewService builds a settings service with the provided repositories.
func NewService(repo settingsRepository, gyms gymReader, types typeRegistryRepo, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if gyms == nil {
		return nil, fmt.Errorf("gym reader required")
	}
	if types == nil {
		return nil, fmt.Errorf("type repository required")
	}
	return &service{repo: repo, gyms: gyms, types: types, logg: logg}, nil
}

// UpdateSettingsInput is a full replacement of the editable settings fields.
type UpdateSettingsInput struct {
	GymName            string
	AdminEmail         string
	AlertDays          int
	MonthlyPrice       decimal.Decimal
	QuarterlyPrice     decimal.Decimal
	YearlyPrice        decimal.Decimal
	EmailNotifications bool
	SMSNotifications   bool
	AutoRenewal        bool
	MemberLimit        int
}

// Get returns the gym's settings, creating a default row for gyms that have
// none yet and upgrading legacy flat prices into registry rows on first read.
func (s *service) Get(ctx context.Context, gymID uuid.UUID) (*GymSettingsDTO, error) {
	row, err := s.repo.FindByGym(ctx, gymID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
		}
		row, err = s.createDefaults(ctx, gymID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.ensureRegistrySeeded(ctx, gymID, row); err != nil {
		return nil, err
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, gymID uuid.UUID, input UpdateSettingsInput) (*GymSettingsDTO, error) {
	name := strings.TrimSpace(input.GymName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gym name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.AdminEmail))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid admin email")
	}
	if input.AlertDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert days must be positive")
	}
	if input.MonthlyPrice.IsNegative() || input.QuarterlyPrice.IsNegative() || input.YearlyPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	if input.MemberLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member limit cannot be negative")
	}

	row := &models.GymSettings{
		GymID:              gymID,
		GymName:            name,
		AdminEmail:         email,
		AlertDays:          input.AlertDays,
		MonthlyPrice:       input.MonthlyPrice,
		QuarterlyPrice:     input.QuarterlyPrice,
		YearlyPrice:        input.YearlyPrice,
		EmailNotifications: input.EmailNotifications,
		SMSNotifications:   input.SMSNotifications,
		AutoRenewal:        input.AutoRenewal,
		MemberLimit:        input.MemberLimit,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}
	return FromModel(row), nil
}

func (s *service) createDefaults(ctx context.Context, gymID uuid.UUID) (*models.GymSettings, error) {
	gym, err := s.gyms.FindByID(ctx, gymID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gym not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gym")
	}

	row := &models.GymSettings{
		GymID:              gymID,
		GymName:            gym.Name,
		AdminEmail:         gym.AdminEmail,
		AlertDays:          30,
		EmailNotifications: true,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default settings")
	}
	return row, nil
}

// ensureRegistrySeeded upgrades gyms that predate the registry: when a gym has
// settings but no membership types, the three legacy plans are materialized as
// registry rows so new signups can pick them. Members keep their legacy
// literals; only the registry gains rows.
func (s *service) ensureRegistrySeeded(ctx context.Context, gymID uuid.UUID, row *models.GymSettings) error {
	existing, err := s.types.ListByGym(ctx, gymID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list membership types")
	}
	if len(existing) > 0 {
		return nil
	}

	seeds := []models.MembershipType{
		{GymID: gymID, Name: "Monthly", DurationDays: 30, Price: row.MonthlyPrice, IsActive: true},
		{GymID: gymID, Name: "Quarterly", DurationDays: 90, Price: row.QuarterlyPrice, IsActive: true},
		{GymID: gymID, Name: "Yearly", DurationDays: 365, Price: row.YearlyPrice, IsActive: true},
	}
	for i := range seeds {
		if err := s.types.Create(ctx, &seeds[i]); err != nil {
			// A concurrent reader may have seeded the same plan already; the
			// unique (gym_id, lower(name)) index rejects the loser.
			if db.IsUniqueViolation(err, "") {
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed membership types")
		}
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithGymID(ctx, gymID.String()), "settings.registry_seeded_from_legacy_prices")
	}
	return nil
}
