package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mpvremote/internal/ipc"
	"mpvremote/internal/logging"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	appendTimeout = 2 * time.Second
	defaultLimit  = 50
)

// Store is the SQLite-backed event journal.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Entry is one journaled event.
type Entry struct {
	ID         int64
	Event      string
	ObserverID *int64
	Name       string
	Data       string
	RecordedAt time.Time
}

// Query filters Recent. Zero Limit means 50; empty Event matches all.
type Query struct {
	Limit int
	Event string
}

// Open creates or opens the journal at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "journal"),
		now:    time.Now,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Append journals evt. Failures are logged, never returned.
func (s *Store) Append(evt ipc.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	if err := s.Record(ctx, evt); err != nil {
		logging.WarnWithContext(s.logger, "failed to journal mpv event", "journal_append_failed",
			logging.String(logging.FieldMPVEvent, evt.Event),
			logging.Error(err),
			logging.String(logging.FieldImpact, "event missing from the journal"),
			logging.String(logging.FieldErrorHint, "check free space and permissions for "+s.path))
	}
}

// Record journals evt and reports failures.
func (s *Store) Record(ctx context.Context, evt ipc.Event) error {
	var observer any
	if evt.ID != nil {
		observer = *evt.ID
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO events (event, observer_id, name, data, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		evt.Event, observer, evt.Name, string(evt.Data), s.now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns journaled events newest first.
func (s *Store) Recent(ctx context.Context, q Query) ([]Entry, error) {
	ctx = ensureContext(ctx)
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT id, event, observer_id, name, data, recorded_at FROM events`
	args := []any{}
	if event := strings.TrimSpace(q.Event); event != "" {
		query += ` WHERE event = ?`
		args = append(args, event)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry    Entry
			observer sql.NullInt64
			recorded int64
		)
		if err := rows.Scan(&entry.ID, &entry.Event, &observer, &entry.Name, &entry.Data, &recorded); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if observer.Valid {
			id := observer.Int64
			entry.ObserverID = &id
		}
		entry.RecordedAt = time.UnixMilli(recorded).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Prune deletes events recorded before the cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM events WHERE recorded_at < ?`, before.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return removed, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
