package gyms

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/internal/memberships"
	"github.com/gymdesk/gymdesk-backend/internal/users"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
)

type stubGymRepo struct {
	gym     *models.Gym
	updated *models.Gym
}

func (s *stubGymRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Gym, error) {
	if s.gym == nil || s.gym.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.gym
	return &clone, nil
}

func (s *stubGymRepo) Update(_ context.Context, gym *models.Gym) error {
	s.updated = gym
	return nil
}

type stubStaffRepo struct {
	roster      []memberships.GymUserDTO
	byUser      map[uuid.UUID]*models.GymMembership
	managers    int64
	created     *models.GymMembership
	deletedID   uuid.UUID
	deleteCalls int
}

func (s *stubStaffRepo) ListGymUsers(_ context.Context, _ uuid.UUID) ([]memberships.GymUserDTO, error) {
	return s.roster, nil
}

func (s *stubStaffRepo) GetMembership(_ context.Context, userID, _ uuid.UUID) (*models.GymMembership, error) {
	if m, ok := s.byUser[userID]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStaffRepo) CreateMembership(_ context.Context, gymID, userID uuid.UUID, role enums.StaffRole, invitedBy *uuid.UUID, status enums.StaffStatus) (*models.GymMembership, error) {
	s.created = &models.GymMembership{
		ID:              uuid.New(),
		GymID:           gymID,
		UserID:          userID,
		Role:            role,
		Status:          status,
		InvitedByUserID: invitedBy,
	}
	return s.created, nil
}

func (s *stubStaffRepo) DeleteMembership(_ context.Context, membershipID uuid.UUID) error {
	s.deletedID = membershipID
	s.deleteCalls++
	return nil
}

func (s *stubStaffRepo) CountActiveManagers(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.managers, nil
}

type stubUserDirectory struct {
	byEmail map[string]*models.User
	created *models.User
}

func (s *stubUserDirectory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserDirectory) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = dto.ToModel()
	s.created.ID = uuid.New()
	return s.created, nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, gyms *stubGymRepo, staff *stubStaffRepo, dir *stubUserDirectory) Service {
	t.Helper()
	svc, err := NewService(gyms, staff, dir, testPasswordConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestUpdate_NormalizesAndSaves(t *testing.T) {
	gymID := uuid.New()
	repo := &stubGymRepo{gym: &models.Gym{ID: gymID, Name: "Old", AdminEmail: "old@gym.test"}}
	svc := newTestService(t, repo, &stubStaffRepo{}, &stubUserDirectory{})

	dto, err := svc.Update(context.Background(), gymID, UpdateGymInput{
		Name:       "  Iron Temple  ",
		AdminEmail: "Admin@Gym.Test",
		Amenities:  []string{"sauna", "pool"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if dto.Name != "Iron Temple" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.AdminEmail != "admin@gym.test" {
		t.Fatalf("expected lowercased email, got %q", dto.AdminEmail)
	}
	if repo.updated == nil || len(repo.updated.Amenities) != 2 {
		t.Fatalf("expected amenities persisted, got %+v", repo.updated)
	}
}

func TestUpdate_RejectsBadEmail(t *testing.T) {
	gymID := uuid.New()
	repo := &stubGymRepo{gym: &models.Gym{ID: gymID}}
	svc := newTestService(t, repo, &stubStaffRepo{}, &stubUserDirectory{})

	_, err := svc.Update(context.Background(), gymID, UpdateGymInput{Name: "G", AdminEmail: "nope"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInviteStaff_CreatesUserWithTempPassword(t *testing.T) {
	gymID := uuid.New()
	inviterID := uuid.New()
	staff := &stubStaffRepo{byUser: map[uuid.UUID]*models.GymMembership{}}
	dir := &stubUserDirectory{byEmail: map[string]*models.User{}}
	svc := newTestService(t, &stubGymRepo{}, staff, dir)

	res, err := svc.InviteStaff(context.Background(), gymID, inviterID, InviteStaffInput{
		Username: "NewCoach",
		Email:    "Coach@Gym.Test",
		Role:     enums.StaffRoleStaff,
	})
	if err != nil {
		t.Fatalf("InviteStaff: %v", err)
	}
	if res.TempPassword == "" {
		t.Fatal("expected a temp password for the new account")
	}
	if dir.created == nil || dir.created.Username != "newcoach" || dir.created.Email != "coach@gym.test" {
		t.Fatalf("unexpected created user %+v", dir.created)
	}
	if strings.Contains(dir.created.PasswordHash, res.TempPassword) {
		t.Fatal("temp password must not be stored in plaintext")
	}
	if staff.created == nil || staff.created.Status != enums.StaffStatusInvited {
		t.Fatalf("expected invited membership, got %+v", staff.created)
	}
	if staff.created.InvitedByUserID == nil || *staff.created.InvitedByUserID != inviterID {
		t.Fatalf("expected inviter recorded, got %+v", staff.created.InvitedByUserID)
	}
}

func TestInviteStaff_ExistingUserNoTempPassword(t *testing.T) {
	gymID := uuid.New()
	existing := &models.User{ID: uuid.New(), Username: "coach", Email: "coach@gym.test"}
	staff := &stubStaffRepo{byUser: map[uuid.UUID]*models.GymMembership{}}
	dir := &stubUserDirectory{byEmail: map[string]*models.User{"coach@gym.test": existing}}
	svc := newTestService(t, &stubGymRepo{}, staff, dir)

	res, err := svc.InviteStaff(context.Background(), gymID, uuid.New(), InviteStaffInput{
		Username: "coach",
		Email:    "coach@gym.test",
		Role:     enums.StaffRoleStaff,
	})
	if err != nil {
		t.Fatalf("InviteStaff: %v", err)
	}
	if res.TempPassword != "" {
		t.Fatal("expected no temp password for an existing account")
	}
	if res.User.ID != existing.ID {
		t.Fatalf("expected existing user reused, got %v", res.User.ID)
	}
}

func TestInviteStaff_RejectsDuplicateMembership(t *testing.T) {
	gymID := uuid.New()
	existing := &models.User{ID: uuid.New(), Email: "coach@gym.test"}
	staff := &stubStaffRepo{byUser: map[uuid.UUID]*models.GymMembership{
		existing.ID: {ID: uuid.New(), GymID: gymID, UserID: existing.ID},
	}}
	dir := &stubUserDirectory{byEmail: map[string]*models.User{"coach@gym.test": existing}}
	svc := newTestService(t, &stubGymRepo{}, staff, dir)

	_, err := svc.InviteStaff(context.Background(), gymID, uuid.New(), InviteStaffInput{
		Username: "coach",
		Email:    "coach@gym.test",
		Role:     enums.StaffRoleStaff,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRemoveStaff_BlocksLastManager(t *testing.T) {
	gymID := uuid.New()
	managerID := uuid.New()
	staff := &stubStaffRepo{
		byUser: map[uuid.UUID]*models.GymMembership{
			managerID: {ID: uuid.New(), GymID: gymID, UserID: managerID, Role: enums.StaffRoleManager, Status: enums.StaffStatusActive},
		},
		managers: 1,
	}
	svc := newTestService(t, &stubGymRepo{}, staff, &stubUserDirectory{})

	err := svc.RemoveStaff(context.Background(), gymID, managerID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if staff.deleteCalls != 0 {
		t.Fatal("membership must not be deleted")
	}
}

func TestRemoveStaff_DeletesWhenAnotherManagerRemains(t *testing.T) {
	gymID := uuid.New()
	managerID := uuid.New()
	membershipID := uuid.New()
	staff := &stubStaffRepo{
		byUser: map[uuid.UUID]*models.GymMembership{
			managerID: {ID: membershipID, GymID: gymID, UserID: managerID, Role: enums.StaffRoleManager, Status: enums.StaffStatusActive},
		},
		managers: 2,
	}
	svc := newTestService(t, &stubGymRepo{}, staff, &stubUserDirectory{})

	if err := svc.RemoveStaff(context.Background(), gymID, managerID); err != nil {
		t.Fatalf("RemoveStaff: %v", err)
	}
	if staff.deletedID != membershipID {
		t.Fatalf("expected membership %v deleted, got %v", membershipID, staff.deletedID)
	}
}
