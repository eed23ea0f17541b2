// Package server exposes the exporter over HTTP: Prometheus metrics, a health
// endpoint, and the optional live delta feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/binance-spread/internal/poller"
)

// StatusSource reports delta loop progress.
type StatusSource interface {
	Status() poller.Status
}

// Config holds listener and route settings.
type Config struct {
	Port        int
	MetricsPath string
	HealthPath  string
	FeedPath    string
}

// Server serves metrics, health, and feed endpoints.
type Server struct {
	cfg    Config
	http   *http.Server
	logger *slog.Logger
}

// New creates a Server. feed may be nil to disable the feed route.
func New(cfg Config, metrics http.Handler, feed http.Handler, status StatusSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.MetricsPath, metrics)
	mux.HandleFunc(cfg.HealthPath, healthHandler(status))
	if feed != nil {
		mux.Handle(cfg.FeedPath, feed)
	}

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving requests. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting metrics server",
		"port", s.cfg.Port,
		"metrics_path", s.cfg.MetricsPath,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type healthResponse struct {
	Status    string     `json:"status"`
	Cycles    int64      `json:"cycles"`
	LastCycle *time.Time `json:"last_cycle,omitempty"`
}

func healthHandler(status StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := status.Status()

		health := healthResponse{
			Status: "starting",
			Cycles: st.Cycles,
		}
		if !st.LastCycle.IsZero() {
			health.Status = "healthy"
			health.LastCycle = &st.LastCycle
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	}
}
