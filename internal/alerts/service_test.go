package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

type stubAlertRepo struct {
	byMember map[uuid.UUID]models.MembershipAlert

	replaceErr error
	upsertErr  error
	deleteErr  error
}

func newStubAlertRepo() *stubAlertRepo {
	return &stubAlertRepo{byMember: map[uuid.UUID]models.MembershipAlert{}}
}

func (s *stubAlertRepo) ListByGym(_ context.Context, gymID uuid.UUID) ([]models.MembershipAlert, error) {
	var out []models.MembershipAlert
	for _, a := range s.byMember {
		if a.GymID == gymID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAlertRepo) ReplaceForGym(_ context.Context, gymID uuid.UUID, alerts []models.MembershipAlert) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	for id, a := range s.byMember {
		if a.GymID == gymID {
			delete(s.byMember, id)
		}
	}
	for _, a := range alerts {
		s.byMember[a.MemberID] = a
	}
	return nil
}

func (s *stubAlertRepo) Upsert(_ context.Context, alert models.MembershipAlert) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.byMember[alert.MemberID] = alert
	return nil
}

func (s *stubAlertRepo) DeleteByMember(_ context.Context, memberID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.byMember, memberID)
	return nil
}

type stubMemberLister struct {
	members []models.Member
	err     error
}

func (s *stubMemberLister) ListByGym(_ context.Context, gymID uuid.UUID) ([]models.Member, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Member
	for _, m := range s.members {
		if m.GymID == gymID {
			out = append(out, m)
		}
	}
	return out, nil
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func testMember(gymID uuid.UUID, name string, end time.Time, active bool) models.Member {
	return models.Member{
		ID:              uuid.New(),
		GymID:           gymID,
		Name:            name,
		IsActive:        active,
		MembershipStart: end.AddDate(0, -1, 0),
		MembershipEnd:   end,
	}
}

func TestRecomputeAll_QualificationWindow(t *testing.T) {
	gymID := uuid.New()
	now := day(2024, time.June, 1)

	inWindow := testMember(gymID, "Abebe", now.AddDate(0, 0, 10), true)
	critical := testMember(gymID, "Sara", now.AddDate(0, 0, 3), true)
	expired := testMember(gymID, "Dawit", now.AddDate(0, 0, -45), true)
	healthy := testMember(gymID, "Hanna", now.AddDate(0, 0, 90), true)
	inactive := testMember(gymID, "Yonas", now.AddDate(0, 0, 2), false)

	repo := newStubAlertRepo()
	svc, err := NewService(repo, &stubMemberLister{members: []models.Member{inWindow, critical, expired, healthy, inactive}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	count, err := svc.RecomputeAll(context.Background(), gymID, now)
	if err != nil {
		t.Fatalf("RecomputeAll: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 alerts, got %d", count)
	}

	if a, ok := repo.byMember[expired.ID]; !ok || a.AlertType != enums.AlertTypeExpired || a.DaysRemaining != -45 {
		t.Fatalf("expected expired alert with -45 days, got %+v ok=%v", a, ok)
	}
	if a, ok := repo.byMember[critical.ID]; !ok || a.AlertType != enums.AlertTypeExpiring {
		t.Fatalf("expected expiring alert for critical member, got %+v ok=%v", a, ok)
	}
	if _, ok := repo.byMember[healthy.ID]; ok {
		t.Fatal("member outside the window must not alert")
	}
	if _, ok := repo.byMember[inactive.ID]; ok {
		t.Fatal("inactive member must not alert")
	}
}

func TestRecomputeAll_IdempotentAndRemovesStale(t *testing.T) {
	gymID := uuid.New()
	now := day(2024, time.June, 1)

	member := testMember(gymID, "Abebe", now.AddDate(0, 0, 5), true)
	lister := &stubMemberLister{members: []models.Member{member}}

	repo := newStubAlertRepo()
	// Stale row for a member that no longer exists.
	ghost := uuid.New()
	repo.byMember[ghost] = models.MembershipAlert{MemberID: ghost, GymID: gymID, MemberName: "Ghost"}

	svc, err := NewService(repo, lister)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.RecomputeAll(context.Background(), gymID, now); err != nil {
			t.Fatalf("RecomputeAll pass %d: %v", i, err)
		}
	}

	if len(repo.byMember) != 1 {
		t.Fatalf("expected exactly 1 alert after recompute, got %d", len(repo.byMember))
	}
	if _, ok := repo.byMember[ghost]; ok {
		t.Fatal("stale alert must be removed by full replacement")
	}
}

func TestRecomputeOne_UpsertsAndDeletes(t *testing.T) {
	gymID := uuid.New()
	now := day(2024, time.June, 1)

	repo := newStubAlertRepo()
	svc, err := NewService(repo, &stubMemberLister{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	member := testMember(gymID, "Abebe", now.AddDate(0, 0, 12), true)
	if err := svc.RecomputeOne(context.Background(), member, now); err != nil {
		t.Fatalf("RecomputeOne: %v", err)
	}
	if a, ok := repo.byMember[member.ID]; !ok || a.AlertType != enums.AlertTypeExpiring || a.DaysRemaining != 12 {
		t.Fatalf("expected expiring/12 alert, got %+v ok=%v", a, ok)
	}

	// Member renewed out of the window: the alert must go away.
	member.MembershipEnd = now.AddDate(0, 0, 60)
	if err := svc.RecomputeOne(context.Background(), member, now); err != nil {
		t.Fatalf("RecomputeOne after renew: %v", err)
	}
	if _, ok := repo.byMember[member.ID]; ok {
		t.Fatal("alert should be deleted once member leaves the window")
	}
}

func TestRecomputeAll_PersistFailureSurfaces(t *testing.T) {
	gymID := uuid.New()
	now := day(2024, time.June, 1)

	repo := newStubAlertRepo()
	repo.replaceErr = errors.New("db down")

	svc, err := NewService(repo, &stubMemberLister{members: []models.Member{
		testMember(gymID, "Abebe", now.AddDate(0, 0, 5), true),
	}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.RecomputeAll(context.Background(), gymID, now); err == nil {
		t.Fatal("expected persistence failure to surface")
	}
}
