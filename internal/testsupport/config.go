package testsupport

import (
	"path/filepath"
	"testing"

	"mpvremote/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.MPV.Socket = filepath.Join(base, "mpv.sock")
	cfgVal.MPV.RestartDelaySeconds = 0
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Server.ScreenshotPath = filepath.Join(base, "screenshot.jpg")
	cfgVal.Journal.Path = filepath.Join(base, "state", "events.db")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Dir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSocket overrides the mpv socket path on the test config.
func WithSocket(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.MPV.Socket = path
	}
}

// WithoutJournal disables the event journal.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// WithTemplate points the web remote at a custom page.
func WithTemplate(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.Template = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
