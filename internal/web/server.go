// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"phi-scan/internal/autosave"
	"phi-scan/internal/config"
	"phi-scan/internal/core"
	"phi-scan/internal/logger"
	"phi-scan/internal/observability"
	"phi-scan/internal/redactors"
	"phi-scan/internal/redactors/strategies"
	"phi-scan/internal/suppressions"
)

// settings is everything a request needs that a config reload can change
type settings struct {
	engine   *core.Engine
	redactor *redactors.Redactor
	strategy string
	server   config.ServerConfig
}

// Server is the editor-facing HTTP API: scanning, redaction, suggestions,
// draft recovery and live scanning over WebSocket
type Server struct {
	logger  *logger.Logger
	saver   *autosave.Saver
	router  *mux.Router
	server  *http.Server
	limiter *clientLimiter
	started time.Time

	current atomic.Pointer[settings]
}

// New creates a server from cfg. saver may be nil, which disables the
// draft endpoints.
func New(cfg *config.Config, saver *autosave.Saver, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		logger:  log.WithComponent("web"),
		saver:   saver,
		router:  mux.NewRouter(),
		started: time.Now(),
	}
	if err := s.UpdateConfig(cfg); err != nil {
		return nil, err
	}
	s.limiter = newClientLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// UpdateConfig swaps in checks, confidence levels, redaction strategy and
// request limits from cfg. In-flight requests finish with the old values.
// Listen address and rate limits are fixed at startup.
func (s *Server) UpdateConfig(cfg *config.Config) error {
	strategy, err := strategies.Parse(cfg.Redaction.Strategy)
	if err != nil {
		return err
	}

	opts := []core.Option{
		core.WithLogger(s.logger.WithComponent("core")),
		core.WithObserver(observability.NewStandardObserver(observabilityLevel(cfg), s.logger)),
	}
	if cfg.Suppressions.Enabled {
		opts = append(opts, core.WithSuppressions(suppressions.NewSuppressionManager(cfg.Suppressions.File)))
	}

	s.current.Store(&settings{
		engine:   core.NewEngineFor(cfg.Defaults.Checks, cfg.Defaults.ConfidenceLevels, opts...),
		redactor: redactors.NewRedactor(strategy),
		strategy: strategy.Name(),
		server:   cfg.Server,
	})

	s.logger.Info("scan settings applied",
		zap.String("checks", cfg.Defaults.Checks),
		zap.String("confidence_levels", cfg.Defaults.ConfidenceLevels),
		zap.String("redaction_strategy", strategy.Name()),
		zap.Bool("suppressions", cfg.Suppressions.Enabled))
	return nil
}

func observabilityLevel(cfg *config.Config) observability.ObservabilityLevel {
	if cfg.Defaults.Debug {
		return observability.ObservabilityDebug
	}
	return observability.ObservabilityMetrics
}

func (s *Server) active() *settings {
	return s.current.Load()
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware, s.loggingMiddleware, s.recoveryMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.corsMiddleware, s.rateLimitMiddleware, s.bodyLimitMiddleware)
	api.HandleFunc("/scan", s.handleScan).Methods(http.MethodPost)
	api.HandleFunc("/redact", s.handleRedact).Methods(http.MethodPost)
	api.HandleFunc("/suggestions", s.handleSuggestions).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{publicationID}", s.handleGetDraft).Methods(http.MethodGet)
	api.HandleFunc("/drafts/{publicationID}", s.handlePutDraft).Methods(http.MethodPut)
	api.HandleFunc("/drafts/{publicationID}", s.handleDeleteDraft).Methods(http.MethodDelete)
	api.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ws := s.router.PathPrefix("/ws").Subrouter()
	ws.Use(s.rateLimitMiddleware)
	ws.HandleFunc("/scan", s.handleLiveScan).Methods(http.MethodGet)
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Stop
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w\n"+
			"Troubleshooting: choose another address with --address or server.address", s.server.Addr, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Stop
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("phi-scan server started", zap.String("address", listener.Addr().String()))

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the server and waits for pending draft mirrors
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping phi-scan server")
	err := s.server.Shutdown(ctx)
	if s.saver != nil {
		s.saver.Wait()
	}
	return err
}
