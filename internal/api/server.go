// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the marketplace HTTP API: the chi router, the global
middleware chain, the probes and the mounted domain handlers.

	GET  /health, /ready, /metrics
	     /api/v1/auth/*                   auth.Handler
	     /api/v1/me, /api/v1/admin/users  profile.Handler
	     /api/v1/places|artists|rentals   catalog collections
	POST /api/v1/uploads                  upload.Handler
*/
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/config"
	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/metrics"
	"github.com/toikana/marketplace/internal/platform/middleware"
	"github.com/toikana/marketplace/internal/upload"
	"github.com/toikana/marketplace/internal/users/auth"
	"github.com/toikana/marketplace/internal/users/profile"
)

// Handlers are the mounted route sets, built in cmd/api.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Auth    *auth.Handler
	Profile *profile.Handler
	Upload  *upload.Handler
	Catalog catalog.Dependencies
}

// Server is the API process: router, per-IP limiter and listener.
type Server struct {
	router  *chi.Mux
	limiter *middleware.Limiter
	http    *http.Server
	log     *slog.Logger
}

// NewServer builds the router. Nothing listens until [Server.Run].
func NewServer(cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	limiter := middleware.NewLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst, constants.RateLimitClientTTL)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(log),
		metrics.Middleware,
		middleware.Recover(),
		middleware.Language(),
		middleware.CORS(cfg),
		chimw.Timeout(constants.GlobalRequestTimeout),
		limiter.Middleware,
		chimw.CleanPath,
	)

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.Authenticate(verifier))
		v1.Mount("/auth", h.Auth.Routes())
		v1.Mount("/uploads", h.Upload.Routes())
		h.Profile.RegisterRoutes(v1)
		catalog.RegisterRoutes(v1, h.Catalog)
	})

	return &Server{
		router:  r,
		limiter: limiter,
		log:     log,
		http: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until context is cancelled, then drains in-flight requests for
// up to [constants.ShutdownTimeout]. It returns nil after a clean drain.
func (s *Server) Run(context context.Context) error {
	go s.limiter.Run(context, constants.RateLimitCleanupInterval)

	failed := make(chan error, 1)
	go func() {
		s.log.Info("server_starting", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err := <-failed:
		return err
	case <-context.Done():
	}

	s.log.Info("server_draining", slog.Duration("timeout", constants.ShutdownTimeout))
	drain, cancel := contextWithShutdownDeadline()
	defer cancel()
	return s.http.Shutdown(drain)
}

func contextWithShutdownDeadline() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.ShutdownTimeout)
}
