package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mpvremote/internal/config"
	"mpvremote/internal/ipc"
	"mpvremote/internal/logging"
)

// Player is the subset of the mpv client the remote needs.
type Player interface {
	Send(req ipc.Request) (*ipc.Response, error)
	WaitEvent(match func(*ipc.Event) bool) (*ipc.Event, error)
	Pending() int
}

// Server is the web remote bound to one player connection.
type Server struct {
	bind           string
	template       string
	screenshotPath string
	screenshotSize int
	jpegQuality    int
	rewindOffset   int

	logger *slog.Logger

	mu     sync.Mutex
	player Player

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New builds the remote for player. gatherer backs /metrics; nil serves the
// default Prometheus gatherer.
func New(cfg *config.Config, player Player, logger *slog.Logger, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		bind:           strings.TrimSpace(cfg.Server.Bind),
		template:       strings.TrimSpace(cfg.Server.Template),
		screenshotPath: cfg.Server.ScreenshotPath,
		screenshotSize: cfg.Server.ScreenshotSize,
		jpegQuality:    cfg.Server.JPEGQuality,
		rewindOffset:   cfg.Server.RewindOffsetSeconds,
		logger:         logging.NewComponentLogger(logger, "remote"),
		player:         player,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/script.js", s.handleScript)
	r.Get("/times", s.handleTimes)
	r.Get("/screenshot", s.handleScreenshot)
	r.Get("/action/{action}", s.handleAction)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.handler = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured bind address and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("remote listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "remote server error", "http_serve_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that "+s.bind+" is free"))
		}
	}()

	s.logger.Info("web remote listening", logging.String("address", "http://"+listener.Addr().String()))
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
