package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gymdesk/gymdesk-backend/internal/lifecycle"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
)

type memberLister interface {
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.Member, error)
}

type typeLister interface {
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipType, error)
}

// DashboardStats is the summary block shown on the admin landing page.
type DashboardStats struct {
	TotalMembers   int             `json:"total_members"`
	ActiveMembers  int             `json:"active_members"`
	ExpiringSoon   int             `json:"expiring_soon"`
	Critical       int             `json:"critical"`
	Expired        int             `json:"expired"`
	Inactive       int             `json:"inactive"`
	NewThisMonth   int             `json:"new_this_month"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
}

// RevenueLine aggregates members and revenue per membership type reference.
type RevenueLine struct {
	TypeRef     string          `json:"type_ref"`
	TypeName    string          `json:"type_name"`
	MemberCount int             `json:"member_count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Service exposes reporting reads.
type Service interface {
	Dashboard(ctx context.Context, gymID uuid.UUID) (*DashboardStats, error)
	RevenueByType(ctx context.Context, gymID uuid.UUID) ([]RevenueLine, error)
}

type service struct {
	members memberLister
	types   typeLister
	now     func() time.Time
}

// NewService builds a reports service with the provided repositories.
func NewService(members memberLister, types typeLister) (Service, error) {
	if members == nil {
		return nil, fmt.Errorf("member lister required")
	}
	if types == nil {
		return nil, fmt.Errorf("type lister required")
	}
	return &service{members: members, types: types, now: time.Now}, nil
}

// Dashboard derives all counters from current member rows in one pass.
// Monthly revenue normalizes each active member's price snapshot to a
// per-month figure using the plan duration.
func (s *service) Dashboard(ctx context.Context, gymID uuid.UUID) (*DashboardStats, error) {
	rows, err := s.members.ListByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	types, err := s.types.ListByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list membership types")
	}
	reg := lifecycle.RegistryFromTypes(types)

	now := s.now()
	monthStart := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &DashboardStats{
		TotalMembers:   len(rows),
		MonthlyRevenue: decimal.Zero,
	}
	for _, m := range rows {
		snap := lifecycle.ComputeStatus(m, now)
		switch snap.Status {
		case enums.MemberStatusActive:
			stats.ActiveMembers++
		case enums.MemberStatusExpiringSoon:
			stats.ExpiringSoon++
		case enums.MemberStatusCritical:
			stats.Critical++
		case enums.MemberStatusExpired:
			stats.Expired++
		case enums.MemberStatusInactive:
			stats.Inactive++
		}

		if !m.JoinDate.Before(monthStart) {
			stats.NewThisMonth++
		}
		if m.IsActive && snap.Status != enums.MemberStatusExpired {
			stats.MonthlyRevenue = stats.MonthlyRevenue.Add(monthlyShare(m, reg))
		}
	}
	return stats, nil
}

func (s *service) RevenueByType(ctx context.Context, gymID uuid.UUID) ([]RevenueLine, error) {
	rows, err := s.members.ListByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	types, err := s.types.ListByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list membership types")
	}

	names := map[string]string{}
	order := []string{}
	for _, mt := range types {
		names[mt.ID.String()] = mt.Name
	}

	byRef := map[string]*RevenueLine{}
	for _, m := range rows {
		line, ok := byRef[m.MembershipTypeRef]
		if !ok {
			name := names[m.MembershipTypeRef]
			if name == "" {
				name = m.MembershipTypeRef
			}
			line = &RevenueLine{TypeRef: m.MembershipTypeRef, TypeName: name, Revenue: decimal.Zero}
			byRef[m.MembershipTypeRef] = line
			order = append(order, m.MembershipTypeRef)
		}
		line.MemberCount++
		line.Revenue = line.Revenue.Add(m.MembershipAmount)
	}

	out := make([]RevenueLine, 0, len(order))
	for _, ref := range order {
		out = append(out, *byRef[ref])
	}
	return out, nil
}

// monthlyShare converts a member's price snapshot into a per-month amount:
// quarterly plans contribute a third, yearly plans a twelfth, registry plans
// scale by 30/duration.
func monthlyShare(m models.Member, reg lifecycle.TypeRegistry) decimal.Decimal {
	ref := lifecycle.ParseTypeRef(m.MembershipTypeRef)
	switch ref.Kind {
	case lifecycle.RefLegacy:
		switch ref.Legacy {
		case enums.LegacyPlanQuarterly:
			return m.MembershipAmount.Div(decimal.NewFromInt(3))
		case enums.LegacyPlanYearly:
			return m.MembershipAmount.Div(decimal.NewFromInt(12))
		default:
			return m.MembershipAmount
		}
	case lifecycle.RefRegistry:
		if mt, ok := reg.Lookup(ref.RegistryID); ok && mt.DurationDays > 0 {
			return m.MembershipAmount.
				Mul(decimal.NewFromInt(30)).
				Div(decimal.NewFromInt(int64(mt.DurationDays)))
		}
	}
	return m.MembershipAmount
}
