package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gymdesk/gymdesk-backend/api/responses"
	"github.com/gymdesk/gymdesk-backend/api/validators"
	"github.com/gymdesk/gymdesk-backend/internal/membershiptypes"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
)

type createTypeRequest struct {
	Name         string          `json:"name" validate:"required"`
	DurationDays int             `json:"duration_days" validate:"required,min=1"`
	Price        decimal.Decimal `json:"price"`
	IsActive     *bool           `json:"is_active,omitempty"`
}

type updateTypeRequest struct {
	Name         *string          `json:"name,omitempty"`
	DurationDays *int             `json:"duration_days,omitempty" validate:"omitempty,min=1"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

func MembershipTypeCreate(svc membershiptypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership type service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createTypeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), gymID, membershiptypes.CreateTypeInput{
			Name:         req.Name,
			DurationDays: req.DurationDays,
			Price:        req.Price,
			IsActive:     req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// MembershipTypeList returns the registry. Pass active=true to hide retired
// plans from signup pickers.
func MembershipTypeList(svc membershiptypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership type service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var (
			rows []membershiptypes.MembershipTypeDTO
		)
		if strings.EqualFold(r.URL.Query().Get("active"), "true") {
			rows, err = svc.ListActive(r.Context(), gymID)
		} else {
			rows, err = svc.List(r.Context(), gymID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

func MembershipTypeGet(svc membershiptypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership type service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		typeID, err := pathUUID(r, "typeId", chi.URLParam(r, "typeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.GetByID(r.Context(), gymID, typeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

func MembershipTypeUpdate(svc membershiptypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership type service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		typeID, err := pathUUID(r, "typeId", chi.URLParam(r, "typeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateTypeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), gymID, typeID, membershiptypes.UpdateTypeInput{
			Name:         req.Name,
			DurationDays: req.DurationDays,
			Price:        req.Price,
			IsActive:     req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

func MembershipTypeDelete(svc membershiptypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership type service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		typeID, err := pathUUID(r, "typeId", chi.URLParam(r, "typeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), gymID, typeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
