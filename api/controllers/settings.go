package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/gymdesk/gymdesk-backend/api/responses"
	"github.com/gymdesk/gymdesk-backend/api/validators"
	"github.com/gymdesk/gymdesk-backend/internal/settings"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
)

type updateSettingsRequest struct {
	GymName            string          `json:"gym_name" validate:"required"`
	AdminEmail         string          `json:"admin_email" validate:"required,email"`
	AlertDays          int             `json:"alert_days" validate:"min=1,max=90"`
	MonthlyPrice       decimal.Decimal `json:"monthly_price"`
	QuarterlyPrice     decimal.Decimal `json:"quarterly_price"`
	YearlyPrice        decimal.Decimal `json:"yearly_price"`
	EmailNotifications bool            `json:"email_notifications"`
	SMSNotifications   bool            `json:"sms_notifications"`
	AutoRenewal        bool            `json:"auto_renewal"`
	MemberLimit        int             `json:"member_limit" validate:"min=0"`
}

func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), gymID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func SettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), gymID, settings.UpdateSettingsInput{
			GymName:            req.GymName,
			AdminEmail:         req.AdminEmail,
			AlertDays:          req.AlertDays,
			MonthlyPrice:       req.MonthlyPrice,
			QuarterlyPrice:     req.QuarterlyPrice,
			YearlyPrice:        req.YearlyPrice,
			EmailNotifications: req.EmailNotifications,
			SMSNotifications:   req.SMSNotifications,
			AutoRenewal:        req.AutoRenewal,
			MemberLimit:        req.MemberLimit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
