// Package server serves the interactive dashboard: the page, its JSON API,
// report downloads, health and metrics.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/report"
)

//go:embed web
var webFS embed.FS

var pageTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// Config holds server configuration.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TableRows    int
	Tool         string
	Version      string
}

// Server is the dashboard HTTP server. The dataset is never modified; every
// request filters and aggregates it afresh.
type Server struct {
	router  *mux.Router
	server  *http.Server
	dataset *portfolio.Dataset
	metrics *Metrics
	config  Config

	now         func() time.Time
	newReporter func(report.Format, io.Writer) (report.Reporter, error)
}

// New creates a server for dataset. A nil dataset is served as an empty portfolio.
func New(dataset *portfolio.Dataset, config Config) *Server {
	if dataset == nil {
		dataset = portfolio.Empty("")
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 60 * time.Second
	}

	s := &Server{
		router:  mux.NewRouter(),
		dataset: dataset,
		metrics: NewMetrics(),
		config:  config,

		now:         time.Now,
		newReporter: report.New,
	}
	s.metrics.DatasetRows.Set(float64(dataset.Len()))
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.observeMiddleware)

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/filters", s.handleFilters).Methods(http.MethodGet)
	api.HandleFunc("/export/{format}", s.handleExport).Methods(http.MethodGet)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	slog.Info("Starting dashboard", "addr", s.config.Addr, "records", s.dataset.Len(), "source", s.dataset.Source())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down dashboard")
	return s.server.Shutdown(ctx)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.config.Addr
}
