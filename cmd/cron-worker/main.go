package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gymdesk/gymdesk-backend/internal/alerts"
	"github.com/gymdesk/gymdesk-backend/internal/cron"
	"github.com/gymdesk/gymdesk-backend/internal/gyms"
	"github.com/gymdesk/gymdesk-backend/internal/members"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	"github.com/gymdesk/gymdesk-backend/pkg/db"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
	"github.com/gymdesk/gymdesk-backend/pkg/metrics"
	"github.com/gymdesk/gymdesk-backend/pkg/migrate"
	"github.com/gymdesk/gymdesk-backend/pkg/redis"
)

const lockKeyFormat = "gd:cron-worker:lock:%s"

// alertRecomputeAdapter pins the recompute clock to wall time for the
// scheduled refresh.
type alertRecomputeAdapter struct {
	svc alerts.Service
}

func (a alertRecomputeAdapter) RecomputeAll(ctx context.Context, gymID uuid.UUID) (int, error) {
	return a.svc.RecomputeAll(ctx, gymID, time.Now().UTC())
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	alertService, err := alerts.NewService(alerts.NewRepository(dbClient.DB()), members.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}

	refreshJob, err := cron.NewAlertRefreshJob(cron.AlertRefreshJobParams{
		Logger:  logg,
		Gyms:    gyms.NewRepository(dbClient.DB()),
		Alerts:  alertRecomputeAdapter{svc: alertService},
		Metrics: metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create alert refresh job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(refreshJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.AlertRefreshInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
