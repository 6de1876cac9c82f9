package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"mpvremote/internal/config"
	"mpvremote/internal/ipc"
	"mpvremote/internal/logging"
)

type commandContext struct {
	socketFlag *string
	configFlag *string
	debugFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string, debugFlag *bool) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
		debugFlag:  debugFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if socket := c.socketOverride(); socket != "" {
			expanded, err := config.ExpandPath(socket)
			if err != nil {
				c.configErr = fmt.Errorf("resolve socket path: %w", err)
				return
			}
			cfg.MPV.Socket = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) socketOverride() string {
	if c.socketFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.socketFlag)
}

func (c *commandContext) debug() bool {
	return c.debugFlag != nil && *c.debugFlag
}

// logger returns a stderr logger when --debug is set and a no-op otherwise,
// so command output on stdout stays clean.
func (c *commandContext) logger() *slog.Logger {
	if !c.debug() {
		return logging.NewNop()
	}
	format := ""
	if cfg, err := c.ensureConfig(); err == nil {
		format = cfg.Logging.Format
	}
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      format,
		OutputPaths: []string{"stderr"},
		Development: true,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	client, err := c.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func (c *commandContext) dialClient() (*ipc.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := ipc.Dial(cfg.MPV.Socket, nil, ipc.WithLogger(c.logger()))
	if err != nil {
		return nil, wrapDialError(err, cfg.MPV.Socket)
	}
	return client, nil
}

func wrapDialError(err error, socket string) error {
	switch {
	case ipc.IsConnectionRefused(err):
		return fmt.Errorf("connect to mpv: socket %s refused the connection; verify mpv is still running", socket)
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to mpv: socket %s not found; start mpv with --input-ipc-server=%s", socket, socket)
	default:
		return fmt.Errorf("connect to mpv: %w", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
