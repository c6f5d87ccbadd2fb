package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gymdesk/gymdesk-backend/api/controllers"
	"github.com/gymdesk/gymdesk-backend/api/middleware"
	"github.com/gymdesk/gymdesk-backend/internal/alerts"
	"github.com/gymdesk/gymdesk-backend/internal/auth"
	"github.com/gymdesk/gymdesk-backend/internal/gyms"
	"github.com/gymdesk/gymdesk-backend/internal/members"
	"github.com/gymdesk/gymdesk-backend/internal/membershiptypes"
	"github.com/gymdesk/gymdesk-backend/internal/reports"
	"github.com/gymdesk/gymdesk-backend/internal/settings"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
	pkgredis "github.com/gymdesk/gymdesk-backend/pkg/redis"
)

type sessionVerifier interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config config.Config
	Logger *logger.Logger

	Redis *pkgredis.Client

	AuthService     auth.Service
	RegisterService auth.RegisterService
	SwitchService   auth.SwitchGymService
	SessionVerifier sessionVerifier

	GymService      gyms.Service
	MemberService   members.Service
	TypeService     membershiptypes.Service
	SettingsService settings.Service
	AlertService    alerts.Service
	ReportService   reports.Service

	HealthDeps map[string]controllers.Pinger
}

func NewRouter(deps Dependencies) *chi.Mux {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.Route("/health", func(h chi.Router) {
		h.Get("/live", controllers.HealthLive(cfg))
		h.Get("/ready", healthReady(deps))
	})

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
		deps.Redis,
		logg,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
		deps.Redis,
		logg,
	)

	r.Route("/api/v1/auth", func(a chi.Router) {
		a.With(loginPolicy.Middleware).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		a.With(registerPolicy.Middleware).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		a.Post("/logout", controllers.AuthLogout(cfg.JWT, deps.AuthService, logg))
		a.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Auth(cfg.JWT, deps.SessionVerifier, logg))
		api.Use(middleware.Idempotency(deps.Redis, logg))

		api.Post("/v1/auth/switch-gym", controllers.AuthSwitchGym(cfg.JWT, deps.SwitchService, logg))

		api.Group(func(scoped chi.Router) {
			scoped.Use(middleware.GymContext(logg))

			scoped.Route("/v1/gyms/me", func(g chi.Router) {
				g.Get("/", controllers.GymGet(deps.GymService, logg))
				g.Put("/", controllers.GymUpdate(deps.GymService, logg))
				g.Get("/staff", controllers.GymStaffList(deps.GymService, logg))
				g.With(requireManager(logg)).Post("/staff/invite", controllers.GymStaffInvite(deps.GymService, logg))
				g.With(requireManager(logg)).Delete("/staff/{userId}", controllers.GymStaffRemove(deps.GymService, logg))
			})

			scoped.Route("/v1/members", func(m chi.Router) {
				m.Get("/", controllers.MemberList(deps.MemberService, logg))
				m.Post("/", controllers.MemberCreate(deps.MemberService, logg))
				m.Get("/{memberId}", controllers.MemberGet(deps.MemberService, logg))
				m.Put("/{memberId}", controllers.MemberUpdate(deps.MemberService, logg))
				m.Post("/{memberId}/renew", controllers.MemberRenew(deps.MemberService, logg))
				m.Delete("/{memberId}", controllers.MemberDelete(deps.MemberService, logg))
			})

			scoped.Route("/v1/membership-types", func(t chi.Router) {
				t.Get("/", controllers.MembershipTypeList(deps.TypeService, logg))
				t.With(requireManager(logg)).Post("/", controllers.MembershipTypeCreate(deps.TypeService, logg))
				t.Get("/{typeId}", controllers.MembershipTypeGet(deps.TypeService, logg))
				t.With(requireManager(logg)).Put("/{typeId}", controllers.MembershipTypeUpdate(deps.TypeService, logg))
				t.With(requireManager(logg)).Delete("/{typeId}", controllers.MembershipTypeDelete(deps.TypeService, logg))
			})

			scoped.Route("/v1/settings", func(s chi.Router) {
				s.Get("/", controllers.SettingsGet(deps.SettingsService, logg))
				s.With(requireManager(logg)).Put("/", controllers.SettingsUpdate(deps.SettingsService, logg))
			})

			scoped.Get("/v1/alerts", controllers.AlertsList(deps.AlertService, logg))
			scoped.Post("/v1/alerts/refresh", controllers.AlertsRefresh(deps.AlertService, logg))

			scoped.Route("/v1/reports", func(rep chi.Router) {
				rep.Get("/dashboard", controllers.ReportsDashboard(deps.ReportService, logg))
				rep.Get("/revenue-by-type", controllers.ReportsRevenueByType(deps.ReportService, logg))
			})
		})
	})

	return r
}

func requireManager(logg *logger.Logger) func(http.Handler) http.Handler {
	return middleware.RequireRole(string(enums.StaffRoleManager), logg)
}

func healthReady(deps Dependencies) http.HandlerFunc {
	return controllers.HealthReady(deps.Config, deps.Logger, deps.HealthDeps)
}
