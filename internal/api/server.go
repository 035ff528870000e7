// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

Two surfaces hang off one router: the cookie-authenticated web routes at the
root, and the bearer-authenticated JSON API under /api/v1.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/abcscribe/abcscribe/internal/auth"
	"github.com/abcscribe/abcscribe/internal/journal"
	"github.com/abcscribe/abcscribe/internal/observation"
	"github.com/abcscribe/abcscribe/internal/platform/config"
	"github.com/abcscribe/abcscribe/internal/platform/constants"
	"github.com/abcscribe/abcscribe/internal/platform/middleware"
	"github.com/abcscribe/abcscribe/internal/setting"
	"github.com/abcscribe/abcscribe/internal/subject"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// WebAuth handles the browser flows (signup, login, logout, magic links).
	WebAuth *auth.WebHandler

	// APIAuth handles bearer-token issue and revocation.
	APIAuth *auth.APIHandler

	// Subject handles subject CRUD and the search engine.
	Subject *subject.Handler

	// Observation handles the nested observation routes.
	Observation *observation.Handler

	// Setting handles observation-context CRUD.
	Setting *setting.Handler

	// Journal handles journal entries.
	Journal *journal.Handler

	// Tag handles the user's tag vocabulary.
	Tag *journal.TagHandler
}

// Resolvers groups the credential resolvers the two gates need.
type Resolvers struct {
	Session middleware.SessionResolver
	Bearer  middleware.BearerResolver
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, resolvers Resolvers, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Web Application
	// Cookie-authenticated browser routes at the root.
	r.Group(func(web chi.Router) {
		web.Use(middleware.WebAuthenticate(resolvers.Session))
		web.Mount("/", h.WebAuth.Routes())
	})

	// # JSON API
	// Bearer-authenticated routes under the versioned prefix. The gate runs
	// for every route; RequireAPIUser guards everything except token issue.
	apiGate := middleware.APIAuthenticate(resolvers.Bearer)

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.APIAuth.Routes(apiGate))

		api.Group(func(protected chi.Router) {
			protected.Use(apiGate)
			protected.Use(middleware.RequireAPIUser)

			protected.Route("/subjects", func(subjects chi.Router) {
				h.Subject.RegisterRoutes(subjects)
				subjects.Route("/{subjectID}/observations", func(observations chi.Router) {
					h.Observation.RegisterRoutes(observations)
				})
			})

			protected.Route("/settings", func(settings chi.Router) {
				h.Setting.RegisterRoutes(settings)
			})

			protected.Route("/journal_entries", func(entries chi.Router) {
				h.Journal.RegisterRoutes(entries)
			})

			protected.Route("/tags", func(tags chi.Router) {
				h.Tag.RegisterRoutes(tags)
			})
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
