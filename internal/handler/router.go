package handler

import (
	"net/http"

	"github.com/forgo/guildpanel/internal/database"
	"github.com/forgo/guildpanel/internal/metrics"
	"github.com/forgo/guildpanel/internal/middleware"
	"github.com/forgo/guildpanel/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterConfig holds everything the HTTP surface depends on
type RouterConfig struct {
	OAuth        *service.OAuthService
	Identity     *service.IdentityService
	Servers      *service.ServerService
	GuildConfigs *service.GuildConfigService
	Guard        middleware.ManageChecker

	Store          database.Pinger
	Sessions       sessions.Store
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that sets those headers.
	TrustProxy bool

	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer // nil disables /metrics
}

// NewRouter builds the API router
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}

	health := NewHealthHandler(cfg.Store)
	oauth := NewOAuthHandler(cfg.OAuth, cfg.Sessions)
	user := NewUserHandler(cfg.Identity)
	server := NewServerHandler(cfg.Servers)
	guild := NewGuildConfigHandler(cfg.GuildConfigs)

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.Metrics(cfg.Metrics),
		middleware.CORS(cfg.AllowedOrigins),
	)
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	r.Use(middleware.Compress)
	r.MethodNotAllowed(methodNotAllowed)

	// Public endpoints
	r.Get("/", health.Health)
	r.Get("/health", health.Health)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Gatherer))
	}
	r.Get("/login", oauth.Login)
	r.Get("/callback", oauth.Callback)

	// Token required
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth())

		r.Get("/user", user.Get)

		// MANAGE_GUILD required on {guildID}
		guarded := middleware.GuildAccess(cfg.Guard, writeServiceError)

		r.Route("/server/{"+middleware.GuildIDParam+"}", func(r chi.Router) {
			r.Use(guarded)
			r.Get("/", server.Get)
			r.Get("/roles", server.Roles)
		})

		r.Route("/guild/{"+middleware.GuildIDParam+"}", func(r chi.Router) {
			r.Use(guarded)
			r.Get("/", guild.Get)
			r.Get("/module/{"+ModuleIDParam+"}", guild.GetModule)
			r.Post("/module", guild.UpsertModule)
			r.Post("/modules", guild.ReplaceModules)
		})
	})

	return r
}
