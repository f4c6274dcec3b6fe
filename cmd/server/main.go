package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/guildpanel/internal/config"
	"github.com/forgo/guildpanel/internal/discord"
	"github.com/forgo/guildpanel/internal/handler"
	"github.com/forgo/guildpanel/internal/metrics"
	"github.com/forgo/guildpanel/internal/middleware"
	"github.com/forgo/guildpanel/internal/repository"
	"github.com/forgo/guildpanel/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	// Initialize the document store
	ctx := context.Background()
	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database",
			slog.String("driver", cfg.Database.Driver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	slog.Info("connected to database", slog.String("driver", cfg.Database.Driver))

	// Discord clients share one pooled HTTP client
	discordCfg := discord.ConfigFrom(cfg.Discord)
	httpClient := discord.NewHTTPClient(discordCfg.APIURL, discordCfg.Timeout, nil)
	discordClient := discord.NewClient(discordCfg, httpClient, recorder)
	discordOAuth := discord.NewOAuth(discordCfg, httpClient, recorder)

	// Initialize services
	oauthService := service.NewOAuthService(discordOAuth)
	identityService := service.NewIdentityService(discordClient)
	serverService := service.NewServerService(discordClient)
	guard := service.NewPermissionGuard(discordClient, recorder)
	guildConfigService := service.NewGuildConfigService(service.GuildConfigServiceConfig{
		Repo:       store.Repo,
		MaxRetries: cfg.Modules.WriteRetries,
		Metrics:    recorder,
	})

	if cfg.Session.Secret == "" {
		slog.Warn("SESSION_SECRET not set, using a random key; pending logins will not survive a restart")
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		OAuth:          oauthService,
		Identity:       identityService,
		Servers:        serverService,
		GuildConfigs:   guildConfigService,
		Guard:          guard,
		Store:          store.Pinger,
		Sessions:       handler.NewSessionStore(cfg.Session.Secret, cfg.IsProduction()),
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustProxy:     cfg.Server.TrustProxy,
		Metrics:        recorder,
		Gatherer:       registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
