package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/internal/memberships"
	pkgAuth "github.com/gymdesk/gymdesk-backend/pkg/auth"
	"github.com/gymdesk/gymdesk-backend/pkg/auth/session"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail    map[string]*models.User
	byUsername map[string]*models.User
	lastLogin  *time.Time
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s.byUsername[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubMembershipsRepo struct {
	gyms []memberships.MembershipWithGym
}

func (s *stubMembershipsRepo) ListUserGyms(_ context.Context, _ uuid.UUID) ([]memberships.MembershipWithGym, error) {
	return s.gyms, nil
}

func (s *stubMembershipsRepo) GetMembershipWithGym(_ context.Context, userID, gymID uuid.UUID) (*memberships.MembershipWithGym, error) {
	for _, m := range s.gyms {
		if m.UserID == userID && m.GymID == gymID {
			clone := m
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSession struct {
	tokens   map[string]string
	rotated  int
	revoked  []string
	generate int
}

func newStubSession() *stubSession {
	return &stubSession{tokens: map[string]string{}}
}

func (s *stubSession) Generate(_ context.Context, accessID string) (string, error) {
	s.generate++
	token := "refresh-" + accessID
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSession) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	s.rotated++
	newID := session.NewAccessID()
	newToken := "refresh-" + newID
	s.tokens[newID] = newToken
	return newID, newToken, nil
}

func (s *stubSession) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.tokens, accessID)
	return nil
}

func (s *stubSession) RefreshToken(_ context.Context, accessID string) (string, error) {
	if token, ok := s.tokens[accessID]; ok {
		return token, nil
	}
	return "", session.ErrInvalidRefreshToken
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "gymdesk-test",
		ExpirationMinutes: 15,
	}
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Username:     "frontdesk",
		Email:        "frontdesk@gym.test",
		PasswordHash: hash,
		Language:     enums.LanguageEnglish,
		IsActive:     true,
	}
}

func newLoginService(t *testing.T, users *stubUserRepo, ms *stubMembershipsRepo, sess *stubSession) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:        users,
		MembershipsRepo: ms,
		SessionManager:  sess,
		JWTConfig:       testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLogin_ByUsernameIssuesTokens(t *testing.T) {
	user := testUser(t, "open sesame")
	gymID := uuid.New()
	ms := &stubMembershipsRepo{gyms: []memberships.MembershipWithGym{{
		MembershipID: uuid.New(),
		GymID:        gymID,
		UserID:       user.ID,
		GymName:      "Iron Temple",
		Role:         enums.StaffRoleManager,
		Status:       enums.StaffStatusActive,
	}}}
	usersRepo := &stubUserRepo{byUsername: map[string]*models.User{"frontdesk": user}}
	sess := newStubSession()
	svc := newLoginService(t, usersRepo, ms, sess)

	res, err := svc.Login(context.Background(), LoginRequest{Identifier: "FrontDesk", Password: "open sesame"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(res.Gyms) != 1 || res.Gyms[0].Name != "Iron Temple" {
		t.Fatalf("unexpected gyms %+v", res.Gyms)
	}
	if usersRepo.lastLogin == nil {
		t.Fatal("expected last login recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), res.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user %v in claims, got %v", user.ID, claims.UserID)
	}
	if claims.ActiveGymID == nil || *claims.ActiveGymID != gymID {
		t.Fatalf("expected active gym %v, got %v", gymID, claims.ActiveGymID)
	}
	if claims.Role != enums.StaffRoleManager {
		t.Fatalf("expected manager role, got %v", claims.Role)
	}
	if sess.tokens[claims.ID] != res.RefreshToken {
		t.Fatal("refresh token not stored under the access id")
	}
}

func TestLogin_ByEmail(t *testing.T) {
	user := testUser(t, "open sesame")
	ms := &stubMembershipsRepo{gyms: []memberships.MembershipWithGym{{
		GymID: uuid.New(), UserID: user.ID, GymName: "G", Role: enums.StaffRoleStaff, Status: enums.StaffStatusActive,
	}}}
	usersRepo := &stubUserRepo{byEmail: map[string]*models.User{"frontdesk@gym.test": user}}
	svc := newLoginService(t, usersRepo, ms, newStubSession())

	if _, err := svc.Login(context.Background(), LoginRequest{Identifier: "FrontDesk@Gym.Test", Password: "open sesame"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	user := testUser(t, "open sesame")
	usersRepo := &stubUserRepo{byUsername: map[string]*models.User{"frontdesk": user}}
	svc := newLoginService(t, usersRepo, &stubMembershipsRepo{}, newStubSession())

	_, err := svc.Login(context.Background(), LoginRequest{Identifier: "frontdesk", Password: "nope"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_NoMemberships(t *testing.T) {
	user := testUser(t, "open sesame")
	usersRepo := &stubUserRepo{byUsername: map[string]*models.User{"frontdesk": user}}
	svc := newLoginService(t, usersRepo, &stubMembershipsRepo{}, newStubSession())

	_, err := svc.Login(context.Background(), LoginRequest{Identifier: "frontdesk", Password: "open sesame"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefresh_RotatesSession(t *testing.T) {
	user := testUser(t, "open sesame")
	gymID := uuid.New()
	ms := &stubMembershipsRepo{gyms: []memberships.MembershipWithGym{{
		GymID: gymID, UserID: user.ID, GymName: "G", Role: enums.StaffRoleManager, Status: enums.StaffStatusActive,
	}}}
	usersRepo := &stubUserRepo{byUsername: map[string]*models.User{"frontdesk": user}}
	sess := newStubSession()
	svc := newLoginService(t, usersRepo, ms, sess)

	login, err := svc.Login(context.Background(), LoginRequest{Identifier: "frontdesk", Password: "open sesame"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	res, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if sess.rotated != 1 {
		t.Fatalf("expected one rotation, got %d", sess.rotated)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), res.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.UserID != user.ID || claims.ActiveGymID == nil || *claims.ActiveGymID != gymID {
		t.Fatalf("rotated claims lost identity: %+v", claims)
	}

	// The old refresh token is burned.
	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	}); err == nil {
		t.Fatal("expected replayed refresh to fail")
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	sess := newStubSession()
	svc := newLoginService(t, &stubUserRepo{}, &stubMembershipsRepo{}, sess)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sess.revoked) != 1 || sess.revoked[0] != "access-1" {
		t.Fatalf("unexpected revocations %v", sess.revoked)
	}
}

func TestSwitchGym_RequiresActiveMembership(t *testing.T) {
	userID := uuid.New()
	gymID := uuid.New()
	ms := &stubMembershipsRepo{gyms: []memberships.MembershipWithGym{{
		GymID: gymID, UserID: userID, GymName: "G", Role: enums.StaffRoleStaff, Status: enums.StaffStatusInvited,
	}}}
	sess := newStubSession()

	svc, err := NewSwitchGymService(SwitchGymServiceParams{
		MembershipsRepo: ms,
		SessionManager:  sess,
		JWTConfig:       testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewSwitchGymService: %v", err)
	}

	_, err = svc.Switch(context.Background(), SwitchGymInput{UserID: userID, GymID: gymID, AccessTokenID: "a"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSwitchGym_IssuesTokensForNewGym(t *testing.T) {
	userID := uuid.New()
	gymID := uuid.New()
	ms := &stubMembershipsRepo{gyms: []memberships.MembershipWithGym{{
		GymID: gymID, UserID: userID, GymName: "Second Gym", Role: enums.StaffRoleStaff, Status: enums.StaffStatusActive,
	}}}
	sess := newStubSession()
	accessID := session.NewAccessID()
	if _, err := sess.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	svc, err := NewSwitchGymService(SwitchGymServiceParams{
		MembershipsRepo: ms,
		SessionManager:  sess,
		JWTConfig:       testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewSwitchGymService: %v", err)
	}

	res, err := svc.Switch(context.Background(), SwitchGymInput{
		UserID:        userID,
		GymID:         gymID,
		Language:      enums.LanguageEnglish,
		AccessTokenID: accessID,
	})
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if res.Gym.Name != "Second Gym" {
		t.Fatalf("unexpected gym %+v", res.Gym)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), res.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ActiveGymID == nil || *claims.ActiveGymID != gymID {
		t.Fatalf("expected active gym %v, got %v", gymID, claims.ActiveGymID)
	}
	if claims.Role != enums.StaffRoleStaff {
		t.Fatalf("expected staff role, got %v", claims.Role)
	}
}
