package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/dentfinder/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/dentfinder/internal/http/middleware"
	"github.com/wolfman30/dentfinder/internal/leads"
	"github.com/wolfman30/dentfinder/internal/session"
	"github.com/wolfman30/dentfinder/internal/stats"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Health             *handlers.HealthHandler
	Listings           *handlers.ListingsHandler
	Search             *handlers.SearchHandler
	Enrollment         *handlers.EnrollmentHandler
	Flows              *handlers.FlowsHandler
	Map                *handlers.MapHandler
	Stats              *stats.Handler
	LeadsHandler       *leads.Handler
	AdminSummary       *handlers.AdminSummaryHandler
	MetricsHandler     http.Handler
	SessionStore       session.Store
	Session            httpmiddleware.SessionConfig
	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// RateLimitRPS <= 0 disables per-IP limiting on /api.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured. ctx bounds the
// background goroutines owned by the router.
func New(ctx context.Context, cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	health := cfg.Health
	if health == nil {
		health = handlers.NewHealthHandler(nil, cfg.Logger)
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", health.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Stats != nil {
			public.Get("/ws/stats", cfg.Stats.HandleWebSocket)
		}
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
		api.Use(middleware.Compress(5))
		api.Use(middleware.Timeout(30 * time.Second))

		if cfg.Listings != nil {
			api.Get("/listings", cfg.Listings.List)
			api.Get("/listings/{listingID}", cfg.Listings.Get)
		}
		if cfg.Search != nil {
			api.Post("/search", cfg.Search.Search)
			api.Post("/zipcode", cfg.Search.ZipLookup)
		}
		if cfg.Enrollment != nil {
			api.Post("/enrollments", cfg.Enrollment.Create)
		}
		if cfg.Flows != nil {
			api.Get("/flows/booking/slots", cfg.Flows.Slots)
		}

		if cfg.SessionStore != nil {
			api.Group(func(visitor chi.Router) {
				visitor.Use(httpmiddleware.Sessions(cfg.SessionStore, cfg.Session, cfg.Logger))
				if cfg.Flows != nil {
					visitor.Route("/flows/{flow}", func(flow chi.Router) {
						flow.Get("/", cfg.Flows.Get)
						flow.Patch("/fields", cfg.Flows.SetFields)
						flow.Post("/next", cfg.Flows.Next)
						flow.Post("/back", cfg.Flows.Back)
						flow.Post("/reset", cfg.Flows.Reset)
					})
				}
				if cfg.Map != nil {
					visitor.Get("/map", cfg.Map.Get)
					visitor.Post("/map/gestures", cfg.Map.Gestures)
				}
			})
		}
	})

	// Admin routes (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.LeadsHandler != nil {
				admin.Get("/leads", cfg.LeadsHandler.ListLeads)
				admin.Get("/leads/{leadID}", cfg.LeadsHandler.GetLead)
			}
			if cfg.AdminSummary != nil {
				admin.Get("/summary", cfg.AdminSummary.Summary)
			}
		})
	}

	return r
}
