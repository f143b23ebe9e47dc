package router

import (
	"pulsehub-api/internal/handler"
	"pulsehub-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds the configuration for creating a router.
type Config struct {
	HealthHandler *handler.HealthHandler
	StockHandler  *handler.StockHandler
	MovieHandler  *handler.MovieHandler
	NewsHandler   *handler.NewsHandler
	MusicHandler  *handler.MusicHandler
	ProxyHandler  *handler.ProxyHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Monitoring endpoints
	if cfg.HealthHandler != nil {
		r.Get("/api/status", cfg.HealthHandler.Status)
	}
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.HealthHandler != nil {
			r.Get("/health", cfg.HealthHandler.Health)
			r.Get("/ready", cfg.HealthHandler.Ready)
		}

		if cfg.StockHandler != nil {
			r.Get("/stocks", cfg.StockHandler.MarketStatus)
			r.Get("/stocks/{ticker}", cfg.StockHandler.StockDetails)
		}

		if cfg.MovieHandler != nil {
			r.Get("/movies/{category}", cfg.MovieHandler.ListByCategory)
			r.Get("/movie/{id}", cfg.MovieHandler.Detail)
		}

		if cfg.NewsHandler != nil {
			r.Get("/news/{category}", cfg.NewsHandler.ListByCategory)
		}

		if cfg.MusicHandler != nil {
			r.Get("/music/{tag}", cfg.MusicHandler.ListByTag)
		}
	})

	// Cached passthrough proxy
	if cfg.ProxyHandler != nil {
		r.Get("/api/proxy/{provider}/*", cfg.ProxyHandler.Fetch)
	}

	return r
}
