package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mpvremote/internal/journal"
	"mpvremote/internal/logging"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var eventFilter string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent mpv events from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.Journal.Enabled {
				return errors.New("event journal is disabled (journal.enabled = false)")
			}

			store, err := journal.Open(cfg.Journal.Path, logging.NewNop())
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), journal.Query{Limit: limit, Event: eventFilter})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No events recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				observer := ""
				if entry.ObserverID != nil {
					observer = strconv.FormatInt(*entry.ObserverID, 10)
				}
				rows = append(rows, []string{
					strconv.FormatInt(entry.ID, 10),
					entry.RecordedAt.Local().Format(time.DateTime),
					entry.Event,
					observer,
					entry.Name,
					entry.Data,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Time", "Event", "Observer", "Name", "Data"},
				rows, 0, 3,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of events to show")
	cmd.Flags().StringVar(&eventFilter, "event", "", "Only show events with this name")
	return cmd
}
