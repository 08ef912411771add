package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/dentfinder/cmd/mainconfig"
	"github.com/wolfman30/dentfinder/internal/api/router"
	appconfig "github.com/wolfman30/dentfinder/internal/config"
	"github.com/wolfman30/dentfinder/internal/costs"
	"github.com/wolfman30/dentfinder/internal/flows"
	"github.com/wolfman30/dentfinder/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/dentfinder/internal/http/middleware"
	"github.com/wolfman30/dentfinder/internal/insurance"
	"github.com/wolfman30/dentfinder/internal/intake"
	"github.com/wolfman30/dentfinder/internal/leads"
	"github.com/wolfman30/dentfinder/internal/listings"
	"github.com/wolfman30/dentfinder/internal/notify"
	"github.com/wolfman30/dentfinder/internal/observability/metrics"
	"github.com/wolfman30/dentfinder/internal/session"
	"github.com/wolfman30/dentfinder/internal/stats"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dentfinder API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_store", cfg.SessionStore,
		"email_provider", cfg.EmailProvider,
	)

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	catalog, err := listings.LoadDefault()
	if err != nil {
		logger.Error("failed to load listings catalog", "error", err)
		os.Exit(1)
	}
	estimator, err := costs.LoadDefault()
	if err != nil {
		logger.Error("failed to load cost tables", "error", err)
		os.Exit(1)
	}

	registry, metricsHandler := setupMetrics()
	flowMetrics := metrics.NewFlowMetrics(registry)

	checks := map[string]handlers.HealthCheck{}

	store, redisClient := setupSessionStore(appCtx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	leadsRepo := leads.Repository(leads.NewInMemoryRepository())
	if pool := connectPostgresPool(appCtx, cfg.DatabaseURL, logger); pool != nil {
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		checks["postgres"] = pool.Ping
	}

	sender, err := setupEmailSender(appCtx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure email sender", "error", err)
		os.Exit(1)
	}
	notifier := notify.NewService(sender, cfg.OperatorEmail, logger)

	submitter := intake.NewService(leadsRepo, logger,
		intake.WithNotifier(notifier),
		intake.WithMetrics(flowMetrics),
		intake.WithDelay(cfg.SubmitDelay),
	)
	eligibility := insurance.NewRandomService(cfg.EligibilityRate, nil, logger)
	flowRegistry := flows.NewRegistry(eligibility, submitter, estimator, flowMetrics)

	// Setup router
	routerCfg := &router.Config{
		Logger:         logger,
		Health:         handlers.NewHealthHandler(checks, logger),
		Listings:       handlers.NewListingsHandler(catalog, logger),
		Search:         handlers.NewSearchHandler(flowMetrics, logger),
		Enrollment:     handlers.NewEnrollmentHandler(submitter, flowMetrics, logger),
		Flows:          handlers.NewFlowsHandler(flowRegistry, store, flowMetrics, logger),
		Map:            handlers.NewMapHandler(catalog, store, logger),
		Stats:          stats.NewHandler(stats.DefaultSeeds, cfg.StatsInterval, logger),
		LeadsHandler:   leads.NewHandler(leadsRepo, logger),
		AdminSummary:   handlers.NewAdminSummaryHandler(registry, logger),
		MetricsHandler: metricsHandler,
		SessionStore:   store,
		Session: httpmiddleware.SessionConfig{
			CookieName: httpmiddleware.DefaultSessionCookie,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.SessionCookieSecure,
		},
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set; admin routes disabled")
	}
	r := router.New(appCtx, routerCfg)

	// Create HTTP server. WriteTimeout stays zero so /ws/stats streams are not cut;
	// /api is bounded by the router's timeout middleware instead.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopApp()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds a private registry with the Go and process collectors
// and the handler that exposes it.
func setupMetrics() (*prometheus.Registry, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// setupSessionStore returns the Redis store when SESSION_STORE=redis and the
// server is reachable, otherwise an in-memory store with a sweeper bound to ctx.
func setupSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (session.Store, *redis.Client) {
	if cfg.UsesRedisSessions() {
		client := redis.NewClient(mainconfig.RedisOptions(cfg))
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logger.Info("using redis session store", "addr", cfg.RedisAddr)
			return session.NewRedisStore(client, cfg.SessionTTL), client
		}
		logger.Warn("redis unavailable; falling back to memory sessions", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
	}

	store := session.NewMemoryStore(cfg.SessionTTL)
	go store.RunSweeper(ctx, time.Minute)
	return store, nil
}

// connectPostgresPool returns nil when no URL is configured or the database is
// unreachable; leads then stay in memory.
func connectPostgresPool(ctx context.Context, url string, logger *logging.Logger) *pgxpool.Pool {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		logger.Warn("invalid DATABASE_URL; storing leads in memory", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Warn("postgres unavailable; storing leads in memory", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("connected to postgres")
	return pool
}

func setupEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	switch cfg.EmailProvider {
	case "", "stub":
		return notify.NewStubEmailSender(logger), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, errors.New("SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), nil
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return notify.NewSESSender(mainconfig.NewSESClient(awsCfg, cfg), notify.SESConfig{
			FromEmail:        cfg.EmailFrom,
			FromName:         cfg.EmailFromName,
			ConfigurationSet: cfg.SESConfigurationSet,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}
