package config

const (
	defaultConfigPath          = "~/.config/mpvremote/config.toml"
	defaultSocket              = "/tmp/mpv"
	defaultConnectRetrySeconds = 1
	defaultRestartDelaySeconds = 5
	defaultBind                = "0.0.0.0:3000"
	defaultRewindOffsetSeconds = 10
	defaultScreenshotPath      = "/tmp/mpv.jpg"
	defaultScreenshotSize      = 300
	defaultJPEGQuality         = 90
	defaultJournalPath         = "~/.local/share/mpvremote/events.db"
	defaultJournalRetention    = 7
	defaultStateDir            = "~/.local/share/mpvremote"
	defaultLogDir              = "~/.local/share/mpvremote/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"

	// SocketEnvVar overrides an empty mpv.socket setting.
	SocketEnvVar = "MPVREMOTE_SOCKET"
)

// Default returns a Config populated with repository defaults. The socket is
// left empty so normalization can apply the environment fallback.
func Default() Config {
	return Config{
		MPV: MPV{
			ConnectRetrySeconds: defaultConnectRetrySeconds,
			RestartDelaySeconds: defaultRestartDelaySeconds,
		},
		Server: Server{
			Bind:                defaultBind,
			RewindOffsetSeconds: defaultRewindOffsetSeconds,
			ScreenshotPath:      defaultScreenshotPath,
			ScreenshotSize:      defaultScreenshotSize,
			JPEGQuality:         defaultJPEGQuality,
		},
		Journal: Journal{
			Enabled:       true,
			Path:          defaultJournalPath,
			RetentionDays: defaultJournalRetention,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
