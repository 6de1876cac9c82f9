package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mpvremote/internal/config"
	"mpvremote/internal/ipc"
	"mpvremote/internal/journal"
	"mpvremote/internal/logging"
	"mpvremote/internal/metrics"
	"mpvremote/internal/remote"
)

// ErrAlreadyRunning is returned when another process holds the instance lock.
var ErrAlreadyRunning = errors.New("another mpvremote instance is already running")

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides logging.level when set.
	LogLevel    string
	Development bool
	// Bind overrides server.bind when set.
	Bind string
	// Logger replaces the config-derived logger.
	Logger *slog.Logger
	// Ready is called with the listening address each time the web remote
	// comes up.
	Ready func(addr string)
}

// Run starts the web remote and keeps it attached to mpv until ctx ends.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runCfg := *cfg
	if bind := strings.TrimSpace(opts.Bind); bind != "" {
		runCfg.Server.Bind = bind
	}
	if err := runCfg.EnsureDirectories(); err != nil {
		return err
	}

	logger := opts.Logger
	if logger == nil {
		loggerCfg := runCfg
		if level := strings.TrimSpace(opts.LogLevel); level != "" {
			loggerCfg.Logging.Level = level
		}
		var err error
		logger, err = logging.NewFromConfig(&loggerCfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}
	logger = logger.With(logging.String("run_id", uuid.NewString()))

	lock := flock.New(runCfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, runCfg.LockPath())
	}
	defer func() { _ = lock.Unlock() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	sup := &supervisor{
		cfg:      &runCfg,
		logger:   logger,
		gatherer: registry,
		ready:    opts.Ready,
	}

	if runCfg.Journal.Enabled {
		store, err := journal.Open(runCfg.Journal.Path, logger)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		pruneJournal(signalCtx, store, runCfg.JournalRetention(), logger)
		sup.sink = store
	}

	logger.Info("mpvremote starting",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String(logging.FieldSocket, runCfg.MPV.Socket),
		logging.String("bind", runCfg.Server.Bind),
		logging.Bool("journal", runCfg.Journal.Enabled))

	sup.loop(signalCtx)
	logger.Info("mpvremote shutting down")
	return nil
}

func pruneJournal(ctx context.Context, store *journal.Store, retention time.Duration, logger *slog.Logger) {
	if retention <= 0 {
		return
	}
	removed, err := store.Prune(ctx, time.Now().Add(-retention))
	if err != nil {
		logging.WarnWithContext(logger, "journal prune failed", "journal_prune_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "old events are kept until the next start"))
		return
	}
	if removed > 0 {
		logger.Info("pruned journal", logging.Int64("removed", removed))
	}
}

// supervisor runs one connection session after another.
type supervisor struct {
	cfg      *config.Config
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	sink     ipc.EventSink
	ready    func(addr string)
}

func (s *supervisor) loop(ctx context.Context) {
	for {
		if err := s.session(ctx); err != nil {
			logging.ErrorWithContext(s.logger, "session ended with error", "session_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "start mpv with --input-ipc-server="+s.cfg.MPV.Socket))
		}
		if ctx.Err() != nil {
			return
		}
		delay := s.cfg.RestartDelay()
		s.logger.Warn("restarting after delay", logging.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// session connects, serves until mpv or ctx goes away, and tears down.
func (s *supervisor) session(ctx context.Context) error {
	closed := make(chan struct{})
	var once sync.Once
	onShutdown := func() { once.Do(func() { close(closed) }) }

	client, err := s.connect(ctx, onShutdown)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer client.Close()
	defer metrics.Track(client)()

	srv := remote.New(s.cfg, client, s.logger, s.gatherer)
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()
	if s.ready != nil {
		s.ready(srv.Addr())
	}

	select {
	case <-closed:
		s.logger.Warn("connection closed, shutting down web remote",
			logging.String(logging.FieldEventType, "session_closed"))
	case <-ctx.Done():
	}
	return nil
}

// connect dials mpv, retrying while the socket refuses connections.
func (s *supervisor) connect(ctx context.Context, onShutdown func()) (*ipc.Client, error) {
	opts := []ipc.Option{ipc.WithLogger(s.logger)}
	if s.sink != nil {
		opts = append(opts, ipc.WithEventSink(s.sink))
	}
	for {
		client, err := ipc.Dial(s.cfg.MPV.Socket, onShutdown, opts...)
		if err == nil {
			return client, nil
		}
		if !ipc.IsConnectionRefused(err) {
			return nil, err
		}
		s.logger.Info("mpv not accepting connections yet, retrying",
			logging.String(logging.FieldSocket, s.cfg.MPV.Socket),
			logging.Duration("retry_in", s.cfg.ConnectRetryInterval()))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.cfg.ConnectRetryInterval()):
		}
	}
}
