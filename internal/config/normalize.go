package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeMPV(); err != nil {
		return err
	}
	if err := c.normalizeServer(); err != nil {
		return err
	}
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeMPV() error {
	c.MPV.Socket = strings.TrimSpace(c.MPV.Socket)
	if c.MPV.Socket == "" {
		if value, ok := os.LookupEnv(SocketEnvVar); ok {
			c.MPV.Socket = strings.TrimSpace(value)
		}
	}
	if c.MPV.Socket == "" {
		c.MPV.Socket = defaultSocket
	}
	var err error
	if c.MPV.Socket, err = expandPath(c.MPV.Socket); err != nil {
		return fmt.Errorf("mpv.socket: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	var err error
	if c.Server.Template = strings.TrimSpace(c.Server.Template); c.Server.Template != "" {
		if c.Server.Template, err = expandPath(c.Server.Template); err != nil {
			return fmt.Errorf("server.template: %w", err)
		}
	}
	if strings.TrimSpace(c.Server.ScreenshotPath) == "" {
		c.Server.ScreenshotPath = defaultScreenshotPath
	}
	if c.Server.ScreenshotPath, err = expandPath(c.Server.ScreenshotPath); err != nil {
		return fmt.Errorf("server.screenshot_path: %w", err)
	}
	if c.Server.ScreenshotSize == 0 {
		c.Server.ScreenshotSize = defaultScreenshotSize
	}
	if c.Server.JPEGQuality == 0 {
		c.Server.JPEGQuality = defaultJPEGQuality
	}
	return nil
}

func (c *Config) normalizeJournal() error {
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	var err error
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
