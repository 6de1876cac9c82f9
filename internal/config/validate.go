package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMPV(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMPV() error {
	if c.MPV.Socket == "" {
		return fmt.Errorf("mpv.socket is required. Set %s or edit the config file (create with 'mpvremote config init')", SocketEnvVar)
	}
	if c.MPV.ConnectRetrySeconds <= 0 {
		return errors.New("mpv.connect_retry_seconds must be positive")
	}
	if c.MPV.RestartDelaySeconds < 0 {
		return errors.New("mpv.restart_delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q: %w", c.Server.Bind, err)
	}
	if c.Server.RewindOffsetSeconds <= 0 || c.Server.RewindOffsetSeconds > 65535 {
		return errors.New("server.rewind_offset_seconds must be between 1 and 65535")
	}
	if c.Server.ScreenshotSize <= 0 {
		return errors.New("server.screenshot_size must be positive")
	}
	if c.Server.JPEGQuality < 1 || c.Server.JPEGQuality > 100 {
		return errors.New("server.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateJournal() error {
	if c.Journal.RetentionDays < 0 {
		return errors.New("journal.retention_days must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
