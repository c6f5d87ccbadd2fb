package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gymdesk/gymdesk-backend/api/responses"
	"github.com/gymdesk/gymdesk-backend/api/validators"
	"github.com/gymdesk/gymdesk-backend/internal/members"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
	"github.com/gymdesk/gymdesk-backend/pkg/pagination"
)

type createMemberRequest struct {
	Name              string  `json:"name" validate:"required"`
	Phone             string  `json:"phone" validate:"required"`
	Email             *string `json:"email,omitempty" validate:"omitempty,email"`
	Address           *string `json:"address,omitempty"`
	DateOfBirth       *string `json:"date_of_birth,omitempty"`
	EmergencyContact  *string `json:"emergency_contact,omitempty"`
	EmergencyPhone    *string `json:"emergency_phone,omitempty"`
	PhotoURL          *string `json:"photo_url,omitempty"`
	JoinDate          *string `json:"join_date,omitempty"`
	MembershipTypeRef string  `json:"membership_type" validate:"required"`
	MembershipStart   *string `json:"membership_start,omitempty"`
}

type updateMemberRequest struct {
	Name              string  `json:"name" validate:"required"`
	Phone             string  `json:"phone" validate:"required"`
	Email             *string `json:"email,omitempty" validate:"omitempty,email"`
	Address           *string `json:"address,omitempty"`
	DateOfBirth       *string `json:"date_of_birth,omitempty"`
	EmergencyContact  *string `json:"emergency_contact,omitempty"`
	EmergencyPhone    *string `json:"emergency_phone,omitempty"`
	PhotoURL          *string `json:"photo_url,omitempty"`
	MembershipTypeRef string  `json:"membership_type" validate:"required"`
	IsActive          *bool   `json:"is_active" validate:"required"`
}

func MemberCreate(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		editorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createMemberRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.Create(r.Context(), gymID, &editorID, members.CreateMemberInput{
			Name:              req.Name,
			Phone:             req.Phone,
			Email:             req.Email,
			Address:           req.Address,
			DateOfBirth:       req.DateOfBirth,
			EmergencyContact:  req.EmergencyContact,
			EmergencyPhone:    req.EmergencyPhone,
			PhotoURL:          req.PhotoURL,
			JoinDate:          req.JoinDate,
			MembershipTypeRef: req.MembershipTypeRef,
			MembershipStart:   req.MembershipStart,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, member)
	}
}

func MemberGet(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		memberID, err := pathUUID(r, "memberId", chi.URLParam(r, "memberId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.GetByID(r.Context(), gymID, memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, member)
	}
}

// MemberList supports an optional status filter plus cursor pagination via
// the limit and cursor query parameters.
func MemberList(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		opts := members.ListOptions{
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseMemberStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			opts.Status = &status
		}

		page, err := svc.List(r.Context(), gymID, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func MemberUpdate(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		editorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		memberID, err := pathUUID(r, "memberId", chi.URLParam(r, "memberId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateMemberRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.Update(r.Context(), gymID, memberID, &editorID, members.UpdateMemberInput{
			Name:              req.Name,
			Phone:             req.Phone,
			Email:             req.Email,
			Address:           req.Address,
			DateOfBirth:       req.DateOfBirth,
			EmergencyContact:  req.EmergencyContact,
			EmergencyPhone:    req.EmergencyPhone,
			PhotoURL:          req.PhotoURL,
			MembershipTypeRef: req.MembershipTypeRef,
			IsActive:          req.IsActive != nil && *req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, member)
	}
}

func MemberRenew(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		editorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		memberID, err := pathUUID(r, "memberId", chi.URLParam(r, "memberId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.Renew(r.Context(), gymID, memberID, &editorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, member)
	}
}

func MemberDelete(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		memberID, err := pathUUID(r, "memberId", chi.URLParam(r, "memberId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), gymID, memberID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
