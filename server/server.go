// Package server exposes the simulation engine over HTTP.
//
// Routes:
//
//	GET  /health    liveness check, {"status":"ok"}
//	POST /simulate  runs one simulation; body and response follow sim.SimulationRequest
//	                and sim.SimulationResponse
//
// Every request runs on its own task set, jobs and trace, so handlers share no
// mutable state.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Server is the rtsim REST API server.
type Server struct {
	router chi.Router
	logger *logrus.Entry
	config Config
}

// New creates a new Server with all routes registered.
func New(cfg Config, logger *logrus.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger.WithField("component", "server"),
		config: cfg,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the handler in an *http.Server configured from s.config.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/simulate", s.handleSimulate)
}
