// Package httpapi exposes the conversation operations over HTTP: starting a
// dialogue, feeding it utterances, finishing it, and quoting the running
// order, plus the menu admin endpoints used to populate the catalog. It maps
// request and response JSON onto the conversation and catalog layers and owns
// nothing of the parsing logic itself.
package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pizzavox/pizzavox/internal/catalog"
	"github.com/pizzavox/pizzavox/internal/conversation"
	"github.com/pizzavox/pizzavox/internal/health"
	"github.com/pizzavox/pizzavox/internal/observe"
)

// Config carries the collaborators a [Server] needs.
type Config struct {
	Machine *conversation.Machine
	Catalog catalog.Catalog

	// Menu is optional; when set the menu admin endpoints are served so the
	// catalog can be populated over HTTP.
	Menu catalog.MenuStore

	// Health is optional; nil serves a handler with no readiness checks.
	Health *health.Handler

	// Metrics is optional and defaults to [observe.DefaultMetrics].
	Metrics *observe.Metrics

	// Logger is optional and defaults to [slog.Default].
	Logger *slog.Logger
}

// Server is the HTTP front of the ordering service.
type Server struct {
	machine *conversation.Machine
	catalog catalog.Catalog
	menu    catalog.MenuStore
	health  *health.Handler
	metrics *observe.Metrics
	log     *slog.Logger
}

// New validates the config and builds a server.
func New(cfg Config) (*Server, error) {
	var errs []error
	if cfg.Machine == nil {
		errs = append(errs, errors.New("machine is required"))
	}
	if cfg.Catalog == nil {
		errs = append(errs, errors.New("catalog is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("httpapi: invalid config: %w", err)
	}
	if cfg.Health == nil {
		cfg.Health = health.New()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.DefaultMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		machine: cfg.Machine,
		catalog: cfg.Catalog,
		menu:    cfg.Menu,
		health:  cfg.Health,
		metrics: cfg.Metrics,
		log:     cfg.Logger,
	}, nil
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(observe.Middleware(s.metrics))

	r.Get("/healthz", s.health.Healthz)
	r.Get("/readyz", s.health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/conversation", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/continue", s.handleContinue)
		r.Post("/finish", s.handleFinish)
		r.Get("/{id}/summary", s.handleSummary)
	})

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", s.handleMenu)
		if s.menu != nil {
			r.Post("/pizzas", s.handleAddPizza)
			r.Post("/ingredients", s.handleAddIngredient)
			r.Post("/doughs", s.handleAddDough)
		}
	})

	return r
}
