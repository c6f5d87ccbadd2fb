package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/gymdesk/gymdesk-backend/api/controllers"
	"github.com/gymdesk/gymdesk-backend/api/routes"
	"github.com/gymdesk/gymdesk-backend/internal/alerts"
	"github.com/gymdesk/gymdesk-backend/internal/auth"
	"github.com/gymdesk/gymdesk-backend/internal/gyms"
	"github.com/gymdesk/gymdesk-backend/internal/members"
	"github.com/gymdesk/gymdesk-backend/internal/memberships"
	"github.com/gymdesk/gymdesk-backend/internal/membershiptypes"
	"github.com/gymdesk/gymdesk-backend/internal/reports"
	"github.com/gymdesk/gymdesk-backend/internal/settings"
	"github.com/gymdesk/gymdesk-backend/internal/users"
	"github.com/gymdesk/gymdesk-backend/pkg/auth/session"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	"github.com/gymdesk/gymdesk-backend/pkg/db"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
	"github.com/gymdesk/gymdesk-backend/pkg/migrate"
	"github.com/gymdesk/gymdesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	membershipsRepo := memberships.NewRepository(dbClient.DB())
	gymsRepo := gyms.NewRepository(dbClient.DB())
	membersRepo := members.NewRepository(dbClient.DB())
	typesRepo := membershiptypes.NewRepository(dbClient.DB())
	settingsRepo := settings.NewRepository(dbClient.DB())
	alertsRepo := alerts.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        usersRepo,
		MembershipsRepo: membershipsRepo,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	switchService, err := auth.NewSwitchGymService(auth.SwitchGymServiceParams{
		MembershipsRepo: membershipsRepo,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create switch service", err)
		os.Exit(1)
	}

	gymService, err := gyms.NewService(gymsRepo, membershipsRepo, usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create gym service", err)
		os.Exit(1)
	}

	alertService, err := alerts.NewService(alertsRepo, membersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}

	memberService, err := members.NewService(membersRepo, typesRepo, settingsRepo, alertService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create member service", err)
		os.Exit(1)
	}

	typeService, err := membershiptypes.NewService(typesRepo, membersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create membership type service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settingsRepo, gymsRepo, typesRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(membersRepo, typesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	router := routes.NewRouter(routes.Dependencies{
		Config:          *cfg,
		Logger:          logg,
		Redis:           redisClient,
		AuthService:     authService,
		RegisterService: registerService,
		SwitchService:   switchService,
		SessionVerifier: sessionManager,
		GymService:      gymService,
		MemberService:   memberService,
		TypeService:     typeService,
		SettingsService: settingsService,
		AlertService:    alertService,
		ReportService:   reportService,
		HealthDeps: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
