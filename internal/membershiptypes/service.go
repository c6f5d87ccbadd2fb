package membershiptypes

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
)

type typeRepository interface {
	Create(ctx context.Context, mt *models.MembershipType) error
	FindByID(ctx context.Context, gymID, id uuid.UUID) (*models.MembershipType, error)
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipType, error)
	ListActiveByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipType, error)
	Update(ctx context.Context, mt *models.MembershipType) error
	Delete(ctx context.Context, gymID, id uuid.UUID) error
}

type memberRefCounter interface {
	CountByTypeRef(ctx context.Context, gymID uuid.UUID, ref string) (int64, error)
}

// Service exposes membership type registry operations.
type Service interface {
	Create(ctx context.Context, gymID uuid.UUID, input CreateTypeInput) (*MembershipTypeDTO, error)
	GetByID(ctx context.Context, gymID, id uuid.UUID) (*MembershipTypeDTO, error)
	List(ctx context.Context, gymID uuid.UUID) ([]MembershipTypeDTO, error)
	ListActive(ctx context.Context, gymID uuid.UUID) ([]MembershipTypeDTO, error)
	Update(ctx context.Context, gymID, id uuid.UUID, input UpdateTypeInput) (*MembershipTypeDTO, error)
	Delete(ctx context.Context, gymID, id uuid.UUID) error
}

type service struct {
	repo    typeRepository
	members memberRefCounter
}

// NewService builds a membership type service with the provided repositories.
func NewService(repo typeRepository, members memberRefCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("type repository required")
	}
	if members == nil {
		return nil, fmt.Errorf("member counter required")
	}
	return &service{repo: repo, members: members}, nil
}

// CreateTypeInput captures the fields of a new registry row.
type CreateTypeInput struct {
	Name         string
	DurationDays int
	Price        decimal.Decimal
	IsActive     *bool
}

// UpdateTypeInput captures partial mutations of a registry row.
type UpdateTypeInput struct {
	Name         *string
	DurationDays *int
	Price        *decimal.Decimal
	IsActive     *bool
}

func (s *service) Create(ctx context.Context, gymID uuid.UUID, input CreateTypeInput) (*MembershipTypeDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.DurationDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration must be a positive number of days")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	mt := &models.MembershipType{
		GymID:        gymID,
		Name:         name,
		DurationDays: input.DurationDays,
		Price:        input.Price,
		IsActive:     true,
	}
	if input.IsActive != nil {
		mt.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, mt); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a membership type with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership type")
	}
	return FromModel(mt), nil
}

func (s *service) GetByID(ctx context.Context, gymID, id uuid.UUID) (*MembershipTypeDTO, error) {
	mt, err := s.repo.FindByID(ctx, gymID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership type")
	}
	return FromModel(mt), nil
}

func (s *service) List(ctx context.Context, gymID uuid.UUID) ([]MembershipTypeDTO, error) {
	rows, err := s.repo.ListByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list membership types")
	}
	return FromModels(rows), nil
}

func (s *service) ListActive(ctx context.Context, gymID uuid.UUID) ([]MembershipTypeDTO, error) {
	rows, err := s.repo.ListActiveByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list membership types")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, gymID, id uuid.UUID, input UpdateTypeInput) (*MembershipTypeDTO, error) {
	mt, err := s.repo.FindByID(ctx, gymID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership type")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		mt.Name = name
	}
	if input.DurationDays != nil {
		if *input.DurationDays <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration must be a positive number of days")
		}
		mt.DurationDays = *input.DurationDays
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		mt.Price = *input.Price
	}
	if input.IsActive != nil {
		mt.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, mt); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a membership type with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership type")
	}
	return FromModel(mt), nil
}

// Delete refuses to remove a registry row that members still reference. The
// blocking count is surfaced in the error details so the UI can explain.
func (s *service) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, gymID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership type not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership type")
	}

	count, err := s.members.CountByTypeRef(ctx, gymID, id.String())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referencing members")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "membership type is in use by existing members").
			WithDetails(map[string]any{"member_count": count})
	}

	if err := s.repo.Delete(ctx, gymID, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete membership type")
	}
	return nil
}
