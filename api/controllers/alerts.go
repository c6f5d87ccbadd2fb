package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/api/responses"
	"github.com/gymdesk/gymdesk-backend/internal/alerts"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
)

type alertResponse struct {
	MemberID      uuid.UUID       `json:"member_id"`
	MemberName    string          `json:"member_name"`
	AlertType     enums.AlertType `json:"alert_type"`
	DaysRemaining int             `json:"days_remaining"`
	MembershipEnd string          `json:"membership_end"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toAlertResponse(a models.MembershipAlert) alertResponse {
	return alertResponse{
		MemberID:      a.MemberID,
		MemberName:    a.MemberName,
		AlertType:     a.AlertType,
		DaysRemaining: a.DaysRemaining,
		MembershipEnd: a.MembershipEnd.Format("2006-01-02"),
		CreatedAt:     a.CreatedAt,
	}
}

// AlertsRefresh rebuilds the gym's alert set on demand, outside the scheduled
// cron cadence.
func AlertsRefresh(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		count, err := svc.RecomputeAll(r.Context(), gymID, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"alerts_active": count})
	}
}

// AlertsList returns the materialized expiration alerts for the active gym,
// most urgent first.
func AlertsList(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		gymID, err := gymIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), gymID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]alertResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, toAlertResponse(row))
		}

		responses.WriteSuccess(w, out)
	}
}
