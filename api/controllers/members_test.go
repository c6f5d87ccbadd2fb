package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/api/middleware"
	"github.com/gymdesk/gymdesk-backend/internal/members"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
)

type stubMemberService struct {
	member   *members.MemberDTO
	page     *members.MemberPage
	err      error
	lastOpts members.ListOptions
	created  *members.CreateMemberInput
}

func (s *stubMemberService) Create(ctx context.Context, gymID uuid.UUID, editorID *uuid.UUID, input members.CreateMemberInput) (*members.MemberDTO, error) {
	s.created = &input
	return s.member, s.err
}

func (s *stubMemberService) GetByID(ctx context.Context, gymID, id uuid.UUID) (*members.MemberDTO, error) {
	return s.member, s.err
}

func (s *stubMemberService) List(ctx context.Context, gymID uuid.UUID, opts members.ListOptions) (*members.MemberPage, error) {
	s.lastOpts = opts
	return s.page, s.err
}

func (s *stubMemberService) Update(ctx context.Context, gymID, id uuid.UUID, editorID *uuid.UUID, input members.UpdateMemberInput) (*members.MemberDTO, error) {
	return s.member, s.err
}

func (s *stubMemberService) Renew(ctx context.Context, gymID, id uuid.UUID, editorID *uuid.UUID) (*members.MemberDTO, error) {
	return s.member, s.err
}

func (s *stubMemberService) Delete(ctx context.Context, gymID, id uuid.UUID) error {
	return s.err
}

func memberRequestContext(r *http.Request, gymID, userID uuid.UUID) *http.Request {
	ctx := middleware.WithGymID(r.Context(), gymID.String())
	ctx = middleware.WithUserID(ctx, userID.String())
	return r.WithContext(ctx)
}

func TestMemberGetSuccess(t *testing.T) {
	gymID := uuid.New()
	memberID := uuid.New()
	svc := &stubMemberService{member: &members.MemberDTO{ID: memberID, GymID: gymID, Name: "Abel Tesfaye"}}
	handler := MemberGet(svc, nil)

	router := chi.NewRouter()
	router.Get("/api/v1/members/{memberId}", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/"+memberID.String(), nil)
	req = memberRequestContext(req, gymID, uuid.New())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data members.MemberDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != memberID {
		t.Fatalf("expected id %s got %s", memberID, envelope.Data.ID)
	}
}

func TestMemberGetMissingGymContext(t *testing.T) {
	handler := MemberGet(&stubMemberService{}, nil)

	router := chi.NewRouter()
	router.Get("/api/v1/members/{memberId}", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestMemberGetNotFound(t *testing.T) {
	svc := &stubMemberService{err: pkgerrors.New(pkgerrors.CodeNotFound, "member not found")}
	handler := MemberGet(svc, nil)

	router := chi.NewRouter()
	router.Get("/api/v1/members/{memberId}", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members/"+uuid.NewString(), nil)
	req = memberRequestContext(req, uuid.New(), uuid.New())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestMemberCreateSuccess(t *testing.T) {
	gymID := uuid.New()
	svc := &stubMemberService{member: &members.MemberDTO{ID: uuid.New(), GymID: gymID, Name: "Sara Abraham"}}
	handler := MemberCreate(svc, nil)

	payload := []byte(`{
		"name": "Sara Abraham",
		"phone": "+251911223344",
		"membership_type": "monthly"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = memberRequestContext(req, gymID, uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.created == nil || svc.created.MembershipTypeRef != "monthly" {
		t.Fatalf("expected membership type to reach service, got %+v", svc.created)
	}
}

func TestMemberCreateValidation(t *testing.T) {
	handler := MemberCreate(&stubMemberService{}, nil)

	payload := []byte(`{"phone": "+251911223344"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = memberRequestContext(req, uuid.New(), uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestMemberListStatusFilter(t *testing.T) {
	gymID := uuid.New()
	svc := &stubMemberService{page: &members.MemberPage{Members: []members.MemberDTO{}}}
	handler := MemberList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members?status=expiring_soon&limit=10", nil)
	req = memberRequestContext(req, gymID, uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastOpts.Status == nil || *svc.lastOpts.Status != enums.MemberStatusExpiringSoon {
		t.Fatalf("expected expiring_soon filter, got %+v", svc.lastOpts.Status)
	}
	if svc.lastOpts.Pagination.Limit != 10 {
		t.Fatalf("expected limit 10 got %d", svc.lastOpts.Pagination.Limit)
	}
}

func TestMemberListRejectsBadStatus(t *testing.T) {
	handler := MemberList(&stubMemberService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members?status=bogus", nil)
	req = memberRequestContext(req, uuid.New(), uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
