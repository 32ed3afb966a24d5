// Package server provides HTTP server management for the health plans API:
// router and middleware setup, route registration and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/giygas/healthplans-api/config"
	"github.com/giygas/healthplans-api/interfaces"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const rateLimitCleanupInterval = 5 * time.Minute

// Server represents the HTTP server
type Server struct {
	server      *http.Server
	router      chi.Router
	handler     interfaces.HTTPHandler
	rateLimiter *RateLimiter
	config      *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:      router,
		handler:     handler,
		rateLimiter: NewRateLimiter(),
		config:      cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Default()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(s.rateLimiter.Handler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	h := s.handler

	s.router.Post("/auth/login", h.Login)
	s.router.Post("/auth/logout", h.Logout)

	s.router.Get("/filters", h.ListFilters)
	s.router.Get("/plans", h.ListPlans)
	s.router.Get("/plans/recommended", h.ListRecommendedPlans)
	s.router.Get("/plans/{id}", h.GetPlanDetail)
	s.router.Get("/dashboard", h.Dashboard)

	s.router.Route("/selection", func(r chi.Router) {
		r.Get("/", h.GetSelection)
		r.Put("/query", h.SetQuery)
		r.Put("/filters/{key}", h.SetSelection)
		r.Delete("/filters", h.ResetSelections)
	})

	s.router.Get("/favorites", h.ListFavorites)
	s.router.Post("/favorites/{planId}", h.ToggleFavorite)

	s.router.Route("/admin", func(r chi.Router) {
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.AdminListCompanies)
			r.Post("/", h.AdminCreateCompany)
			r.Put("/{id}", h.AdminUpdateCompany)
			r.Delete("/{id}", h.AdminDeleteCompany)
			r.Get("/{id}/medicines", h.AdminCompanyMedicines)
		})
		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.AdminListMedicines)
			r.Post("/", h.AdminCreateMedicine)
			r.Put("/{id}", h.AdminUpdateMedicine)
			r.Delete("/{id}", h.AdminDeleteMedicine)
		})
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.AdminListPlans)
			r.Post("/", h.AdminCreatePlan)
			r.Put("/{id}", h.AdminUpdatePlan)
			r.Delete("/{id}", h.AdminDeletePlan)
		})
		r.Route("/filters", func(r chi.Router) {
			r.Get("/", h.AdminListFilters)
			r.Post("/", h.AdminCreateFilter)
			r.Put("/{id}", h.AdminUpdateFilter)
			r.Delete("/{id}", h.AdminDeleteFilter)
		})
		r.Get("/stats", h.AdminStats)
		r.Get("/integrity", h.AdminIntegrity)
	})

	s.router.Get("/health", h.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the server
func (s *Server) Start() error {
	s.rateLimiter.StartCleanup(rateLimitCleanupInterval)

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port), "env", s.config.Env)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")
	s.rateLimiter.Stop()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
