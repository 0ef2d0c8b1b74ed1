package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/edaplatform/eda-api/infrastructure/http/handler"
	"github.com/edaplatform/eda-api/infrastructure/http/middleware"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
)

// APIPrefix is the mount point of the versioned API
const APIPrefix = "/api/eda/v1"

// Config represents server configuration
type Config struct {
	Addr                 string
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger logger.Logger
}

// NewRouter mounts the handlers under APIPrefix next to /health
func NewRouter(log logger.Logger, rulebooks *handler.RulebookHandler, audit *handler.AuditHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggingMiddleware(log))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix(APIPrefix).Subrouter()
	rulebooks.RegisterRoutes(api)
	audit.RegisterRoutes(api)
	return router
}

// New wraps router with the correlation and CORS middleware
func New(config Config, log logger.Logger, router http.Handler) *Server {
	h := middleware.CorrelationIDMiddleware(router)
	if config.CORSEnabled && len(config.CORSAllowedOrigins) > 0 {
		h = middleware.CORSMiddleware(h, config.CORSAllowedOrigins, config.CORSAllowCredentials)
	}

	return &Server{
		logger: log,
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      h,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Handler exposes the composed handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting server", map[string]interface{}{"addr": s.server.Addr})
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down server...", map[string]interface{}{})
	return s.server.Shutdown(ctx)
}
