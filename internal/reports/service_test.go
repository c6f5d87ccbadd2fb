package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

type stubMembers struct {
	rows []models.Member
}

func (s *stubMembers) ListByGym(_ context.Context, _ uuid.UUID) ([]models.Member, error) {
	return s.rows, nil
}

type stubTypes struct {
	rows []models.MembershipType
}

func (s *stubTypes) ListByGym(_ context.Context, _ uuid.UUID) ([]models.MembershipType, error) {
	return s.rows, nil
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func TestDashboard_CountsAndRevenue(t *testing.T) {
	gymID := uuid.New()
	now := day(2024, time.June, 15)

	weekly := models.MembershipType{ID: uuid.New(), GymID: gymID, Name: "Weekly", DurationDays: 30, Price: decimal.NewFromInt(900)}

	members := []models.Member{
		// Active, yearly plan: contributes 7500/12 per month.
		{
			GymID: gymID, Name: "A", IsActive: true,
			MembershipTypeRef: "yearly",
			JoinDate:          day(2024, time.June, 3),
			MembershipStart:   day(2024, time.June, 1),
			MembershipEnd:     day(2025, time.June, 1),
			MembershipAmount:  decimal.NewFromInt(7500),
		},
		// Expiring soon, registry 30-day plan: contributes full 900.
		{
			GymID: gymID, Name: "B", IsActive: true,
			MembershipTypeRef: weekly.ID.String(),
			JoinDate:          day(2024, time.May, 20),
			MembershipStart:   day(2024, time.May, 25),
			MembershipEnd:     day(2024, time.June, 24),
			MembershipAmount:  decimal.NewFromInt(900),
		},
		// Expired: counted as expired, excluded from revenue.
		{
			GymID: gymID, Name: "C", IsActive: true,
			MembershipTypeRef: "monthly",
			JoinDate:          day(2024, time.January, 5),
			MembershipStart:   day(2024, time.January, 5),
			MembershipEnd:     day(2024, time.February, 5),
			MembershipAmount:  decimal.NewFromInt(800),
		},
		// Inactive: excluded from revenue.
		{
			GymID: gymID, Name: "D", IsActive: false,
			MembershipTypeRef: "monthly",
			JoinDate:          day(2023, time.December, 1),
			MembershipStart:   day(2024, time.June, 1),
			MembershipEnd:     day(2024, time.July, 1),
			MembershipAmount:  decimal.NewFromInt(800),
		},
	}

	svc, err := NewService(&stubMembers{rows: members}, &stubTypes{rows: []models.MembershipType{weekly}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background(), gymID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if stats.TotalMembers != 4 {
		t.Fatalf("expected 4 total, got %d", stats.TotalMembers)
	}
	if stats.ActiveMembers != 1 || stats.ExpiringSoon != 1 || stats.Expired != 1 || stats.Inactive != 1 {
		t.Fatalf("unexpected status counts %+v", stats)
	}
	if stats.NewThisMonth != 1 {
		t.Fatalf("expected 1 new member this month, got %d", stats.NewThisMonth)
	}

	want := decimal.NewFromInt(7500).Div(decimal.NewFromInt(12)).
		Add(decimal.NewFromInt(900))
	if !stats.MonthlyRevenue.Equal(want) {
		t.Fatalf("expected monthly revenue %s, got %s", want, stats.MonthlyRevenue)
	}
}

func TestRevenueByType_GroupsSnapshots(t *testing.T) {
	gymID := uuid.New()
	weekly := models.MembershipType{ID: uuid.New(), GymID: gymID, Name: "Weekly", DurationDays: 7, Price: decimal.NewFromInt(500)}

	members := []models.Member{
		{GymID: gymID, MembershipTypeRef: weekly.ID.String(), MembershipAmount: decimal.NewFromInt(500)},
		{GymID: gymID, MembershipTypeRef: weekly.ID.String(), MembershipAmount: decimal.NewFromInt(450)},
		{GymID: gymID, MembershipTypeRef: "monthly", MembershipAmount: decimal.NewFromInt(800)},
	}

	svc, err := NewService(&stubMembers{rows: members}, &stubTypes{rows: []models.MembershipType{weekly}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	lines, err := svc.RevenueByType(context.Background(), gymID)
	if err != nil {
		t.Fatalf("RevenueByType: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	byRef := map[string]RevenueLine{}
	for _, l := range lines {
		byRef[l.TypeRef] = l
	}
	wl := byRef[weekly.ID.String()]
	if wl.TypeName != "Weekly" || wl.MemberCount != 2 || !wl.Revenue.Equal(decimal.NewFromInt(950)) {
		t.Fatalf("unexpected weekly line %+v", wl)
	}
	ml := byRef["monthly"]
	if ml.TypeName != "monthly" || ml.MemberCount != 1 || !ml.Revenue.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected monthly line %+v", ml)
	}
}
