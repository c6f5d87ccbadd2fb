package controllers

import (
	"context"
	"net/http"

	"github.com/gymdesk/gymdesk-backend/api/responses"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
)

// Pinger is a backing dependency that can report connectivity.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GymDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers a ping.
func HealthReady(cfg config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GymDesk-Env", cfg.App.Env)
		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				checks[name] = err.Error()
			}
		}
		if len(checks) > 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
