package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/internal/lifecycle"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
	"github.com/gymdesk/gymdesk-backend/pkg/pagination"
)

type memberRepository interface {
	Create(ctx context.Context, m *models.Member) error
	FindByID(ctx context.Context, gymID, id uuid.UUID) (*models.Member, error)
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.Member, error)
	Update(ctx context.Context, m *models.Member) error
	Delete(ctx context.Context, gymID, id uuid.UUID) error
	CountByGym(ctx context.Context, gymID uuid.UUID) (int64, error)
}

type typeLister interface {
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipType, error)
}

type settingsReader interface {
	FindByGym(ctx context.Context, gymID uuid.UUID) (*models.GymSettings, error)
}

type alertRecomputer interface {
	RecomputeOne(ctx context.Context, member models.Member, now time.Time) error
	RemoveForMember(ctx context.Context, memberID uuid.UUID) error
}

// Service exposes member lifecycle operations.
type Service interface {
	Create(ctx context.Context, gymID uuid.UUID, editorID *uuid.UUID, input CreateMemberInput) (*MemberDTO, error)
	GetByID(ctx context.Context, gymID, id uuid.UUID) (*MemberDTO, error)
	List(ctx context.Context, gymID uuid.UUID, opts ListOptions) (*MemberPage, error)
	Update(ctx context.Context, gymID, id uuid.UUID, editorID *uuid.UUID, input UpdateMemberInput) (*MemberDTO, error)
	Renew(ctx context.Context, gymID, id uuid.UUID, editorID *uuid.UUID) (*MemberDTO, error)
	Delete(ctx context.Context, gymID, id uuid.UUID) error
}

type service struct {
	repo     memberRepository
	types    typeLister
	settings settingsReader
	alerts   alertRecomputer
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a member service with the provided repositories.
func NewService(repo memberRepository, types typeLister, settings settingsReader, alerts alertRecomputer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("member repository required")
	}
	if types == nil {
		return nil, fmt.Errorf("type lister required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if alerts == nil {
		return nil, fmt.Errorf("alert recomputer required")
	}
	return &service{
		repo:     repo,
		types:    types,
		settings: settings,
		alerts:   alerts,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// CreateMemberInput captures a new member registration.
type CreateMemberInput struct {
	Name              string
	Phone             string
	Email             *string
	Address           *string
	DateOfBirth       *string
	EmergencyContact  *string
	EmergencyPhone    *string
	PhotoURL          *string
	JoinDate          *string
	MembershipTypeRef string
	MembershipStart   *string
}

// UpdateMemberInput is a full-replacement edit of the member record. Every
// field is written; there is no merge.
type UpdateMemberInput struct {
	Name              string
	Phone             string
	Email             *string
	Address           *string
	DateOfBirth       *string
	EmergencyContact  *string
	EmergencyPhone    *string
	PhotoURL          *string
	MembershipTypeRef string
	IsActive          bool
}

// ListOptions filters and paginates the member list.
type ListOptions struct {
	Status     *enums.MemberStatus
	Pagination pagination.Params
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return lifecycle.Midnight(t), nil
}

func (s *service) registryFor(ctx context.Context, gymID uuid.UUID) (lifecycle.TypeRegistry, error) {
	rows, err := s.types.ListByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership types")
	}
	return lifecycle.RegistryFromTypes(rows), nil
}

// priceFor resolves the price snapshot for a type reference: registry rows
// carry their own price, legacy literals read the flat prices on settings.
func (s *service) priceFor(ctx context.Context, gymID uuid.UUID, ref lifecycle.TypeRef, reg lifecycle.TypeRegistry) (decimal.Decimal, bool) {
	switch ref.Kind {
	case lifecycle.RefRegistry:
		if mt, ok := reg.Lookup(ref.RegistryID); ok {
			return mt.Price, true
		}
	case lifecycle.RefLegacy:
		settings, err := s.settings.FindByGym(ctx, gymID)
		if err != nil || settings == nil {
			return decimal.Zero, false
		}
		switch ref.Legacy {
		case enums.LegacyPlanMonthly:
			return settings.MonthlyPrice, true
		case enums.LegacyPlanQuarterly:
			return settings.QuarterlyPrice, true
		case enums.LegacyPlanYearly:
			return settings.YearlyPrice, true
		}
	}
	return decimal.Zero, false
}

func (s *service) warn(ctx context.Context, msg string, fields map[string]any) {
	if s.logg == nil {
		return
	}
	if fields != nil {
		ctx = s.logg.WithFields(ctx, fields)
	}
	s.logg.Warn(ctx, msg)
}

// refreshAlert keeps alert persistence strictly best-effort: member writes
// must never fail because the alert row could not be written.
func (s *service) refreshAlert(ctx context.Context, member models.Member, now time.Time) {
	if err := s.alerts.RecomputeOne(ctx, member, now); err != nil {
		s.warn(ctx, "member.alert_refresh_failed", map[string]any{
			"member_id": member.ID.String(),
			"error":     err.Error(),
		})
	}
}

func (s *service) Create(ctx context.Context, gymID uuid.UUID, editorID *uuid.UUID, input CreateMemberInput) (*MemberDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	typeRef := strings.TrimSpace(input.MembershipTypeRef)
	if typeRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "membership type is required")
	}

	settings, err := s.settings.FindByGym(ctx, gymID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	if settings != nil && settings.MemberLimit > 0 {
		count, err := s.repo.CountByGym(ctx, gymID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count members")
		}
		if count >= int64(settings.MemberLimit) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "member limit reached").
				WithDetails(map[string]any{"member_limit": settings.MemberLimit})
		}
	}

	now := s.now()
	today := lifecycle.Midnight(now)

	start := today
	if input.MembershipStart != nil && *input.MembershipStart != "" {
		start, err = parseDate(*input.MembershipStart)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid membership start date")
		}
	}
	joinDate := today
	if input.JoinDate != nil && *input.JoinDate != "" {
		joinDate, err = parseDate(*input.JoinDate)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid join date")
		}
	}
	var dob *time.Time
	if input.DateOfBirth != nil && *input.DateOfBirth != "" {
		parsed, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid date of birth")
		}
		dob = &parsed
	}

	reg, err := s.registryFor(ctx, gymID)
	if err != nil {
		return nil, err
	}

	ref := lifecycle.ParseTypeRef(typeRef)
	end, fellBack := lifecycle.ComputeEndDateOrFallback(start, ref, reg)
	if fellBack {
		s.warn(ctx, "member.unknown_membership_type", map[string]any{
			"membership_type": typeRef,
		})
	}

	amount, _ := s.priceFor(ctx, gymID, ref, reg)

	member := &models.Member{
		GymID:             gymID,
		Name:              name,
		Email:             input.Email,
		Phone:             phone,
		Address:           input.Address,
		DateOfBirth:       dob,
		EmergencyContact:  input.EmergencyContact,
		EmergencyPhone:    input.EmergencyPhone,
		PhotoURL:          input.PhotoURL,
		JoinDate:          joinDate,
		MembershipTypeRef: typeRef,
		MembershipStart:   start,
		MembershipEnd:     end,
		MembershipAmount:  amount,
		IsActive:          true,
		CreatedByUserID:   editorID,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member")
	}

	s.refreshAlert(ctx, *member, now)
	return FromModel(member, now), nil
}

func (s *service) GetByID(ctx context.Context, gymID, id uuid.UUID) (*MemberDTO, error) {
	member, err := s.repo.FindByID(ctx, gymID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	return FromModel(member, s.now()), nil
}

// List filters by derived status in memory. The store contract deliberately
// has no status query: status is computed, never stored.
func (s *service) List(ctx context.Context, gymID uuid.UUID, opts ListOptions) (*MemberPage, error) {
	rows, err := s.repo.ListByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}

	now := s.now()
	filtered := rows
	if opts.Status != nil {
		filtered = filtered[:0:0]
		for _, m := range rows {
			if lifecycle.ComputeStatus(m, now).Status == *opts.Status {
				filtered = append(filtered, m)
			}
		}
	}

	cursor, err := pagination.ParseCursor(opts.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	// A next_cursor is only valid when replayed with the same status filter;
	// the cursor predicate runs against the already-filtered rows.
	if cursor != nil {
		after := filtered[:0:0]
		for _, m := range filtered {
			if m.CreatedAt.Before(cursor.CreatedAt) ||
				(m.CreatedAt.Equal(cursor.CreatedAt) && m.ID.String() < cursor.ID.String()) {
				after = append(after, m)
			}
		}
		filtered = after
	}

	limit := pagination.NormalizeLimit(opts.Pagination.Limit)
	page := &MemberPage{Members: make([]MemberDTO, 0, limit)}
	for i := range filtered {
		if i == limit {
			last := filtered[i-1]
			page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		page.Members = append(page.Members, *FromModel(&filtered[i], now))
	}
	return page, nil
}

func (s *service) Update(ctx context.Context, gymID, id uuid.UUID, editorID *uuid.UUID, input UpdateMemberInput) (*MemberDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	typeRef := strings.TrimSpace(input.MembershipTypeRef)
	if typeRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "membership type is required")
	}

	member, err := s.repo.FindByID(ctx, gymID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}

	var dob *time.Time
	if input.DateOfBirth != nil && *input.DateOfBirth != "" {
		parsed, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid date of birth")
		}
		dob = &parsed
	}

	typeChanged := member.MembershipTypeRef != typeRef

	member.Name = name
	member.Phone = phone
	member.Email = input.Email
	member.Address = input.Address
	member.DateOfBirth = dob
	member.EmergencyContact = input.EmergencyContact
	member.EmergencyPhone = input.EmergencyPhone
	member.PhotoURL = input.PhotoURL
	member.MembershipTypeRef = typeRef
	member.IsActive = input.IsActive
	member.LastEditedByUserID = editorID

	if typeChanged {
		reg, err := s.registryFor(ctx, gymID)
		if err != nil {
			return nil, err
		}
		// A type change re-bases the end date from the existing start.
		// Renewal is the only operation that moves the start date.
		if fellBack := lifecycle.RebaseEnd(member, reg); fellBack {
			s.warn(ctx, "member.unknown_membership_type", map[string]any{
				"membership_type": typeRef,
			})
		}
		ref := lifecycle.ParseTypeRef(typeRef)
		if amount, ok := s.priceFor(ctx, gymID, ref, reg); ok {
			member.MembershipAmount = amount
		}
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member")
	}

	now := s.now()
	s.refreshAlert(ctx, *member, now)
	return FromModel(member, now), nil
}

func (s *service) Renew(ctx context.Context, gymID, id uuid.UUID, editorID *uuid.UUID) (*MemberDTO, error) {
	member, err := s.repo.FindByID(ctx, gymID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}

	reg, err := s.registryFor(ctx, gymID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if fellBack := lifecycle.Renew(member, reg, now, editorID); fellBack {
		s.warn(ctx, "member.unknown_membership_type", map[string]any{
			"membership_type": member.MembershipTypeRef,
		})
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "renew member")
	}

	s.refreshAlert(ctx, *member, now)
	return FromModel(member, now), nil
}

func (s *service) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, gymID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}

	if err := s.repo.Delete(ctx, gymID, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete member")
	}

	if err := s.alerts.RemoveForMember(ctx, id); err != nil {
		s.warn(ctx, "member.alert_cleanup_failed", map[string]any{
			"member_id": id.String(),
			"error":     err.Error(),
		})
	}
	return nil
}
