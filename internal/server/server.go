// Package server exposes a computed pipeline result as a small JSON API for
// the presentation layer. The result is request-scoped session data; nothing
// is persisted behind it.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/davidentech/flujo-caja-v2/internal/engine"
)

// API serves one engine result over HTTP.
type API struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// Config holds server options.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// New builds the API around a result.
func New(logger zerolog.Logger, cfg Config, res *engine.Result) *API {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &API{
		logger: &logger,
		server: &http.Server{
			Addr:    cfg.Addr,
			Handler: NewRouter(logger, res),
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// NewRouter builds the route tree; split out so tests can drive it directly.
func NewRouter(logger zerolog.Logger, res *engine.Result) *chi.Mux {
	router := chi.NewRouter()
	router.Use(requestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/ledger", writeJSON(func() any { return res.Ledger }))
		r.Get("/periods", writeJSON(func() any { return res.Buckets }))
		r.Get("/projections", writeJSON(func() any { return res.Projections }))
		r.Get("/trend", writeJSON(func() any { return res.Trend }))
		r.Get("/diagnostics", writeJSON(func() any { return res.Diagnostics }))
	})
	return router
}

func writeJSON(data func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data()); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("encoding response")
		}
	}
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()
			reqLogger.Debug().Msg("request")

			ctx := reqLogger.WithContext(req.Context())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// Start serves until the listener fails or an interrupt arrives, then shuts
// down gracefully within the configured timeout.
func (a *API) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		a.logger.Info().Str("addr", a.server.Addr).Msg("starting server")
		serverErrors <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		a.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		err := a.server.Shutdown(ctx)
		if err != nil {
			a.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = a.server.Close()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
