package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/gymdesk/gymdesk-backend/pkg/logger"
	"github.com/gymdesk/gymdesk-backend/pkg/metrics"
)

// AlertRefreshJobParams configures the scheduled alert materialization work.
type AlertRefreshJobParams struct {
	Logger  *logger.Logger
	Gyms    gymLister
	Alerts  alertRecomputer
	Metrics *metrics.CronJobMetrics
}

type gymLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type alertRecomputer interface {
	RecomputeAll(ctx context.Context, gymID uuid.UUID) (int, error)
}

type alertRefreshJob struct {
	logg    *logger.Logger
	gyms    gymLister
	alerts  alertRecomputer
	metrics *metrics.CronJobMetrics
}

// NewAlertRefreshJob constructs the nightly alert refresh job. It rebuilds
// the materialized alert rows for every gym so that alerts stay correct even
// when no member writes happen across a day boundary.
func NewAlertRefreshJob(params AlertRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Gyms == nil {
		return nil, fmt.Errorf("gym lister required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert recomputer required")
	}
	return &alertRefreshJob{
		logg:    params.Logger,
		gyms:    params.Gyms,
		alerts:  params.Alerts,
		metrics: params.Metrics,
	}, nil
}

func (j *alertRefreshJob) Name() string { return "alert-refresh" }

func (j *alertRefreshJob) Run(ctx context.Context) error {
	gymIDs, err := j.gyms.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list gyms: %w", err)
	}

	var errs []error
	refreshed := 0
	totalAlerts := 0
	for _, gymID := range gymIDs {
		count, err := j.alerts.RecomputeAll(ctx, gymID)
		if err != nil {
			// One broken gym must not starve the rest of the fleet.
			gymCtx := j.logg.WithGymID(ctx, gymID.String())
			j.logg.Error(gymCtx, "alert refresh failed for gym", err)
			errs = append(errs, fmt.Errorf("gym %s: %w", gymID, err))
			continue
		}
		if j.metrics != nil {
			j.metrics.SetActiveAlerts(gymID.String(), count)
		}
		refreshed++
		totalAlerts += count
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"gyms_total":     len(gymIDs),
		"gyms_refreshed": refreshed,
		"alerts_active":  totalAlerts,
	})
	j.logg.Info(logCtx, "alert refresh loop complete")

	return multierr.Combine(errs...)
}
