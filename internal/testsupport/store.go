package testsupport

import (
	"testing"

	"mpvremote/internal/config"
	"mpvremote/internal/journal"
	"mpvremote/internal/logging"
)

// MustOpenJournal opens the event journal named by cfg and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store, err := journal.Open(cfg.Journal.Path, logging.NewNop())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
