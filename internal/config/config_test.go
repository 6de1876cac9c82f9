package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"mpvremote/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.SocketEnvVar, "")
	os.Unsetenv(config.SocketEnvVar)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.MPV.Socket != "/tmp/mpv" {
		t.Fatalf("unexpected socket: %q", cfg.MPV.Socket)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "mpvremote")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.LockPath() != filepath.Join(wantState, "mpvremote.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.Journal.Path != filepath.Join(wantState, "events.db") {
		t.Fatalf("unexpected journal path: %q", cfg.Journal.Path)
	}
	if cfg.Server.Bind != "0.0.0.0:3000" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Server.RewindOffsetSeconds != 10 {
		t.Fatalf("unexpected rewind offset: %d", cfg.Server.RewindOffsetSeconds)
	}
	if cfg.ConnectRetryInterval() != time.Second {
		t.Fatalf("unexpected retry interval: %v", cfg.ConnectRetryInterval())
	}
	if cfg.RestartDelay() != 5*time.Second {
		t.Fatalf("unexpected restart delay: %v", cfg.RestartDelay())
	}
	if cfg.JournalRetention() != 7*24*time.Hour {
		t.Fatalf("unexpected journal retention: %v", cfg.JournalRetention())
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
[mpv]
socket = "` + filepath.Join(dir, "mpv.sock") + `"
connect_retry_seconds = 3

[server]
bind = "127.0.0.1:8080"
rewind_offset_seconds = 30
template = "` + filepath.Join(dir, "index.html") + `"

[journal]
enabled = false

[paths]
state_dir = "` + filepath.Join(dir, "state") + `"

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.MPV.Socket != filepath.Join(dir, "mpv.sock") {
		t.Fatalf("unexpected socket %q", cfg.MPV.Socket)
	}
	if cfg.MPV.ConnectRetrySeconds != 3 {
		t.Fatalf("unexpected retry seconds %d", cfg.MPV.ConnectRetrySeconds)
	}
	if cfg.MPV.RestartDelaySeconds != 5 {
		t.Fatalf("expected default restart delay to survive partial config, got %d", cfg.MPV.RestartDelaySeconds)
	}
	if cfg.Server.Bind != "127.0.0.1:8080" || cfg.Server.RewindOffsetSeconds != 30 {
		t.Fatalf("unexpected server section: %+v", cfg.Server)
	}
	if cfg.Server.Template != filepath.Join(dir, "index.html") {
		t.Fatalf("unexpected template %q", cfg.Server.Template)
	}
	if cfg.Journal.Enabled {
		t.Fatal("expected journal disabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging settings to be lowercased, got %+v", cfg.Logging)
	}
}

func TestSocketEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.SocketEnvVar, "/run/user/1000/mpv.sock")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MPV.Socket != "/run/user/1000/mpv.sock" {
		t.Fatalf("expected socket from env, got %q", cfg.MPV.Socket)
	}
}

func TestConfigFileSocketWinsOverEnv(t *testing.T) {
	t.Setenv(config.SocketEnvVar, "/from/env")
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[mpv]\nsocket = \"/from/file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MPV.Socket != "/from/file" {
		t.Fatalf("expected socket from file, got %q", cfg.MPV.Socket)
	}
}

func TestJPEGQuality(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	unset := filepath.Join(dir, "unset.toml")
	if err := os.WriteFile(unset, []byte("[server]\njpeg_quality = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(unset)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.JPEGQuality != 90 {
		t.Fatalf("expected zero quality to fall back to 90, got %d", cfg.Server.JPEGQuality)
	}

	tooHigh := filepath.Join(dir, "high.toml")
	if err := os.WriteFile(tooHigh, []byte("[server]\njpeg_quality = 101\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(tooHigh); err == nil || !strings.Contains(err.Error(), "jpeg_quality") {
		t.Fatalf("expected jpeg_quality error, got %v", err)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[mpv\nsocket = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "--input-ipc-server") {
		t.Fatalf("sample config missing mpv launch hint: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.MPV.Socket != "/tmp/mpv" {
		t.Fatalf("unexpected sample socket %q", cfg.MPV.Socket)
	}
	if cfg.Server.RewindOffsetSeconds != 10 {
		t.Fatalf("unexpected sample rewind offset %d", cfg.Server.RewindOffsetSeconds)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing socket", func(c *config.Config) { c.MPV.Socket = "" }, "mpv.socket"},
		{"retry interval", func(c *config.Config) { c.MPV.ConnectRetrySeconds = 0 }, "connect_retry_seconds"},
		{"bind", func(c *config.Config) { c.Server.Bind = "localhost" }, "server.bind"},
		{"rewind", func(c *config.Config) { c.Server.RewindOffsetSeconds = 0 }, "rewind_offset_seconds"},
		{"jpeg quality", func(c *config.Config) { c.Server.JPEGQuality = 101 }, "jpeg_quality"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"retention", func(c *config.Config) { c.Journal.RetentionDays = -1 }, "retention_days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.MPV.Socket = "/tmp/mpv"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Logging.Dir = filepath.Join(base, "logs")
	cfg.Journal.Path = filepath.Join(base, "journal", "events.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Logging.Dir, filepath.Dir(cfg.Journal.Path)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist: %v", dir, err)
		}
	}
}
