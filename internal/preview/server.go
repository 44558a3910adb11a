package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/lessonkit/internal/metrics"
)

// Status is the payload served on /healthz.
type Status struct {
	Status      string    `json:"status"`
	Pages       int       `json:"pages"`
	LintErrors  int       `json:"lint_errors"`
	LintWarns   int       `json:"lint_warnings"`
	LastRebuild time.Time `json:"last_rebuild"`
	Rebuilds    int64     `json:"rebuilds"`
}

// Server serves the rendered site plus health and metrics endpoints.
type Server struct {
	siteDir string
	port    int

	mu     sync.RWMutex
	status Status

	httpServer *http.Server
}

// NewServer creates the preview HTTP server for a rendered site directory.
func NewServer(siteDir string, port int, registry *prom.Registry) *Server {
	s := &Server{siteDir: siteDir, port: port}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(siteDir)))
	mux.HandleFunc("/healthz", s.handleHealthz)
	if registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", "addr", s.httpServer.Addr, "site", s.siteDir)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("preview server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// SetStatus publishes the result of the latest rebuild.
func (s *Server) SetStatus(pages, lintErrors, lintWarnings int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Status = "ok"
	if lintErrors > 0 {
		s.status.Status = "degraded"
	}
	s.status.Pages = pages
	s.status.LintErrors = lintErrors
	s.status.LintWarns = lintWarnings
	s.status.LastRebuild = time.Now()
	s.status.Rebuilds++
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	if status.Status == "" {
		status.Status = "starting"
	}

	w.Header().Set("Content-Type", "application/json")
	if status.Status == "starting" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		slog.Error("Failed to encode health status", "error", err)
	}
}
