package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mpvremote/internal/daemonrun"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web remote until interrupted",
		Long: "Connects to mpv, serves the browser remote, and reconnects whenever mpv\n" +
			"restarts. Start mpv with --input-ipc-server pointing at mpv.socket.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts := daemonrun.Options{
				Bind:        addr,
				Development: ctx.debug(),
				Ready: func(bound string) {
					fmt.Fprintf(cmd.OutOrStdout(), "Web remote available at http://%s\n", bound)
				},
			}
			if ctx.debug() {
				opts.LogLevel = "debug"
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.bind)")
	return cmd
}
