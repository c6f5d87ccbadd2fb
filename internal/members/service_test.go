package members

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/pagination"
)

type stubMemberRepo struct {
	rows    map[uuid.UUID]*models.Member
	created int
}

func newStubMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{rows: map[uuid.UUID]*models.Member{}}
}

func (s *stubMemberRepo) Create(_ context.Context, m *models.Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.created++
	m.CreatedAt = time.Now().Add(time.Duration(s.created) * time.Millisecond)
	cpy := *m
	s.rows[m.ID] = &cpy
	return nil
}

func (s *stubMemberRepo) FindByID(_ context.Context, gymID, id uuid.UUID) (*models.Member, error) {
	m, ok := s.rows[id]
	if !ok || m.GymID != gymID {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *m
	return &cpy, nil
}

func (s *stubMemberRepo) ListByGym(_ context.Context, gymID uuid.UUID) ([]models.Member, error) {
	var out []models.Member
	for _, m := range s.rows {
		if m.GymID == gymID {
			out = append(out, *m)
		}
	}
	// Newest first, mirroring the repository ordering.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (s *stubMemberRepo) Update(_ context.Context, m *models.Member) error {
	cpy := *m
	s.rows[m.ID] = &cpy
	return nil
}

func (s *stubMemberRepo) Delete(_ context.Context, gymID, id uuid.UUID) error {
	if m, ok := s.rows[id]; ok && m.GymID == gymID {
		delete(s.rows, id)
	}
	return nil
}

func (s *stubMemberRepo) CountByGym(_ context.Context, gymID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range s.rows {
		if m.GymID == gymID {
			count++
		}
	}
	return count, nil
}

type stubTypeLister struct {
	rows []models.MembershipType
}

func (s *stubTypeLister) ListByGym(_ context.Context, gymID uuid.UUID) ([]models.MembershipType, error) {
	var out []models.MembershipType
	for _, mt := range s.rows {
		if mt.GymID == gymID {
			out = append(out, mt)
		}
	}
	return out, nil
}

type stubSettingsReader struct {
	settings *models.GymSettings
}

func (s *stubSettingsReader) FindByGym(_ context.Context, _ uuid.UUID) (*models.GymSettings, error) {
	if s.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.settings, nil
}

type stubAlerts struct {
	recomputed []uuid.UUID
	removed    []uuid.UUID

	recomputeErr error
	removeErr    error
}

func (s *stubAlerts) RecomputeOne(_ context.Context, member models.Member, _ time.Time) error {
	if s.recomputeErr != nil {
		return s.recomputeErr
	}
	s.recomputed = append(s.recomputed, member.ID)
	return nil
}

func (s *stubAlerts) RemoveForMember(_ context.Context, memberID uuid.UUID) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, memberID)
	return nil
}

type fixture struct {
	svc    Service
	repo   *stubMemberRepo
	types  *stubTypeLister
	alerts *stubAlerts
	gymID  uuid.UUID
	now    time.Time
}

func newFixture(t *testing.T, settings *models.GymSettings, types []models.MembershipType) *fixture {
	t.Helper()

	repo := newStubMemberRepo()
	lister := &stubTypeLister{rows: types}
	alerts := &stubAlerts{}

	svc, err := NewService(repo, lister, &stubSettingsReader{settings: settings}, alerts, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	now := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return now }

	gymID := uuid.New()
	for i := range types {
		types[i].GymID = gymID
	}
	lister.rows = types

	return &fixture{svc: svc, repo: repo, types: lister, alerts: alerts, gymID: gymID, now: now}
}

func weeklyType(price int64) models.MembershipType {
	return models.MembershipType{
		ID:           uuid.New(),
		Name:         "Weekly",
		DurationDays: 7,
		Price:        decimal.NewFromInt(price),
		IsActive:     true,
	}
}

func TestCreate_RegistryType(t *testing.T) {
	mt := weeklyType(500)
	f := newFixture(t, nil, []models.MembershipType{mt})

	dto, err := f.svc.Create(context.Background(), f.gymID, nil, CreateMemberInput{
		Name:              "Abebe Kebede",
		Phone:             "0911000000",
		MembershipTypeRef: mt.ID.String(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if dto.MembershipStart != "2024-06-01" {
		t.Fatalf("expected start today, got %s", dto.MembershipStart)
	}
	if dto.MembershipEnd != "2024-06-08" {
		t.Fatalf("expected end start+7d, got %s", dto.MembershipEnd)
	}
	if !dto.MembershipAmount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected price snapshot 500, got %s", dto.MembershipAmount)
	}
	if len(f.alerts.recomputed) != 1 {
		t.Fatalf("expected one alert recompute, got %d", len(f.alerts.recomputed))
	}
}

func TestCreate_LegacyMonthlyCalendarMath(t *testing.T) {
	settings := &models.GymSettings{MonthlyPrice: decimal.NewFromInt(800)}
	f := newFixture(t, settings, nil)

	start := "2024-01-15"
	dto, err := f.svc.Create(context.Background(), f.gymID, nil, CreateMemberInput{
		Name:              "Sara Alemu",
		Phone:             "0911000001",
		MembershipTypeRef: "monthly",
		MembershipStart:   &start,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if dto.MembershipEnd != "2024-02-15" {
		t.Fatalf("monthly plan from Jan 15 must end Feb 15, got %s", dto.MembershipEnd)
	}
	if !dto.MembershipAmount.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected legacy price from settings, got %s", dto.MembershipAmount)
	}
}

func TestCreate_UnknownTypeFallsBack30Days(t *testing.T) {
	f := newFixture(t, nil, nil)

	dto, err := f.svc.Create(context.Background(), f.gymID, nil, CreateMemberInput{
		Name:              "Dawit Bekele",
		Phone:             "0911000002",
		MembershipTypeRef: "platinum-legacy",
	})
	if err != nil {
		t.Fatalf("Create should survive an unknown type: %v", err)
	}
	if dto.MembershipEnd != "2024-07-01" {
		t.Fatalf("expected 30-day fallback end, got %s", dto.MembershipEnd)
	}
}

func TestCreate_MemberLimit(t *testing.T) {
	settings := &models.GymSettings{MemberLimit: 1}
	f := newFixture(t, settings, nil)

	if _, err := f.svc.Create(context.Background(), f.gymID, nil, CreateMemberInput{
		Name: "First", Phone: "0911", MembershipTypeRef: "monthly",
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.svc.Create(context.Background(), f.gymID, nil, CreateMemberInput{
		Name: "Second", Phone: "0912", MembershipTypeRef: "monthly",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict at the member limit, got %v", err)
	}
}

func TestUpdate_TypeChangeRebasesFromExistingStart(t *testing.T) {
	mt := weeklyType(500)
	f := newFixture(t, nil, []models.MembershipType{mt})

	start := "2024-05-20"
	created, err := f.svc.Create(context.Background(), f.gymID, nil, CreateMemberInput{
		Name:              "Hanna Girma",
		Phone:             "0911000003",
		MembershipTypeRef: "monthly",
		MembershipStart:   &start,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.svc.Update(context.Background(), f.gymID, created.ID, nil, UpdateMemberInput{
		Name:              created.Name,
		Phone:             created.Phone,
		MembershipTypeRef: mt.ID.String(),
		IsActive:          true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.MembershipStart != "2024-05-20" {
		t.Fatalf("type change must not move the start date, got %s", updated.MembershipStart)
	}
	if updated.MembershipEnd != "2024-05-27" {
		t.Fatalf("expected end rebased to start+7d, got %s", updated.MembershipEnd)
	}
	if !updated.MembershipAmount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected refreshed price snapshot, got %s", updated.MembershipAmount)
	}
}

func TestUpdate_AlertFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t, nil, nil)

	created, err := f.svc.Create(context.Background(), f.gymID, nil, CreateMemberInput{
		Name: "Yonas", Phone: "0911000004", MembershipTypeRef: "monthly",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.alerts.recomputeErr = errors.New("redis down")

	updated, err := f.svc.Update(context.Background(), f.gymID, created.ID, nil, UpdateMemberInput{
		Name:              "Yonas Tadesse",
		Phone:             created.Phone,
		MembershipTypeRef: created.MembershipTypeRef,
		IsActive:          true,
	})
	if err != nil {
		t.Fatalf("member write must not fail on alert errors: %v", err)
	}
	if updated.Name != "Yonas Tadesse" {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}
}

func TestRenew_RoundTrip(t *testing.T) {
	mt := weeklyType(500)
	f := newFixture(t, nil, []models.MembershipType{mt})

	editor := uuid.New()
	start := "2024-01-01"
	created, err := f.svc.Create(context.Background(), f.gymID, &editor, CreateMemberInput{
		Name:              "Meron Haile",
		Phone:             "0911000005",
		MembershipTypeRef: mt.ID.String(),
		MembershipStart:   &start,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != enums.MemberStatusExpired {
		t.Fatalf("expected expired before renew, got %s", created.Status)
	}

	renewed, err := f.svc.Renew(context.Background(), f.gymID, created.ID, &editor)
	if err != nil {
		t.Fatalf("Renew: %v", err)
	}

	if renewed.MembershipStart != "2024-06-01" {
		t.Fatalf("renew must re-base start from today, got %s", renewed.MembershipStart)
	}
	if renewed.MembershipEnd != "2024-06-08" {
		t.Fatalf("expected renewed end, got %s", renewed.MembershipEnd)
	}
	if !renewed.IsActive {
		t.Fatal("renew must reactivate the member")
	}
	if renewed.Status == enums.MemberStatusExpired {
		t.Fatal("renewed member cannot be expired")
	}
}

func TestDelete_RemovesAlert(t *testing.T) {
	f := newFixture(t, nil, nil)

	created, err := f.svc.Create(context.Background(), f.gymID, nil, CreateMemberInput{
		Name: "Kali", Phone: "0911000006", MembershipTypeRef: "monthly",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.svc.Delete(context.Background(), f.gymID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.alerts.removed) != 1 || f.alerts.removed[0] != created.ID {
		t.Fatalf("expected alert cleanup for %s, got %v", created.ID, f.alerts.removed)
	}
	if _, err := f.svc.GetByID(context.Background(), f.gymID, created.ID); pkgerrors.As(err) == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestList_StatusFilterAndPagination(t *testing.T) {
	f := newFixture(t, nil, nil)

	// Two members inside the expiring window, one far out.
	mkStart := func(s string) *string { return &s }
	for _, in := range []CreateMemberInput{
		{Name: "A", Phone: "1", MembershipTypeRef: "monthly", MembershipStart: mkStart("2024-05-15")},
		{Name: "B", Phone: "2", MembershipTypeRef: "monthly", MembershipStart: mkStart("2024-05-20")},
		{Name: "C", Phone: "3", MembershipTypeRef: "yearly", MembershipStart: mkStart("2024-05-01")},
	} {
		if _, err := f.svc.Create(context.Background(), f.gymID, nil, in); err != nil {
			t.Fatalf("Create %s: %v", in.Name, err)
		}
	}

	status := enums.MemberStatusExpiringSoon
	page, err := f.svc.List(context.Background(), f.gymID, ListOptions{Status: &status})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Members) != 2 {
		t.Fatalf("expected 2 expiring members, got %d", len(page.Members))
	}

	first, err := f.svc.List(context.Background(), f.gymID, ListOptions{
		Pagination: pagination.Params{Limit: 2},
	})
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if len(first.Members) != 2 || first.NextCursor == "" {
		t.Fatalf("expected full first page with cursor, got %d members cursor=%q", len(first.Members), first.NextCursor)
	}

	second, err := f.svc.List(context.Background(), f.gymID, ListOptions{
		Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor},
	})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(second.Members) != 1 || second.NextCursor != "" {
		t.Fatalf("expected final page of 1, got %d cursor=%q", len(second.Members), second.NextCursor)
	}
}
