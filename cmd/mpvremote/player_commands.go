package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mpvremote/internal/ipc"
)

func newPlayerCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newGetCommand(ctx),
		newSetCommand(ctx),
		newRawCommand(ctx),
		newWaitCommand(ctx),
		newWatchCommand(ctx),
	}
}

func newGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <property>...",
		Short: "Print mpv property values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				rows := make([][]string, 0, len(args))
				for _, property := range args {
					resp, err := client.Send(ipc.GetProperty(property))
					if err != nil {
						return fmt.Errorf("get %s: %w", property, err)
					}
					rows = append(rows, []string{property, dataString(resp.Data)})
				}

				out := cmd.OutOrStdout()
				if isTerminal(out) {
					fmt.Fprintln(out, renderTable([]string{"Property", "Value"}, rows))
					return nil
				}
				for _, row := range rows {
					fmt.Fprintf(out, "%s\t%s\n", row[0], row[1])
				}
				return nil
			})
		},
	}
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <property> <value>",
		Short: "Set an mpv property",
		Long:  "The value is sent as JSON when it parses (50, true, \"text\") and as a string otherwise.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Send(ipc.SetProperty(args[0], parseValue(args[1]))); err != nil {
					return fmt.Errorf("set %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s set\n", args[0])
				return nil
			})
		},
	}
}

func newRawCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "command <name> [args...]",
		Short: "Run an arbitrary mpv input command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commandArgs := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				commandArgs = append(commandArgs, parseValue(arg))
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Send(ipc.Command(args[0], commandArgs...))
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				if !resp.HasData() {
					fmt.Fprintln(cmd.OutOrStdout(), "ok")
					return nil
				}
				return writeJSON(cmd, resp.Data)
			})
		},
	}
}

func newWaitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "wait <event>",
		Short: "Block until mpv emits the named event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return ctx.withClient(func(client *ipc.Client) error {
				runCtx, stop := closeOnInterrupt(cmd.Context(), client)
				defer stop()

				evt, err := client.WaitEvent(func(e *ipc.Event) bool { return e.Event == name })
				if err != nil {
					return interruptedOr(runCtx, fmt.Errorf("wait for %s: %w", name, err))
				}
				line, err := json.Marshal(evt)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(line))
				return nil
			})
		},
	}
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch <property>...",
		Short: "Print property changes until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				runCtx, stop := closeOnInterrupt(cmd.Context(), client)
				defer stop()

				observers := make(map[int64]string, len(args))
				for i, property := range args {
					id := int64(i + 1)
					if _, err := client.Send(ipc.ObserveProperty(id, property)); err != nil {
						return interruptedOr(runCtx, fmt.Errorf("observe %s: %w", property, err))
					}
					observers[id] = property
				}

				out := cmd.OutOrStdout()
				for seen := 0; count <= 0 || seen < count; seen++ {
					evt, err := client.WaitEvent(func(e *ipc.Event) bool {
						if e.Event != ipc.EventPropertyChange || e.ID == nil {
							return false
						}
						_, ok := observers[*e.ID]
						return ok
					})
					if err != nil {
						return interruptedOr(runCtx, err)
					}
					fmt.Fprintf(out, "%s = %s\n", evt.Name, dataString(evt.Data))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many changes (0 watches forever)")
	return cmd
}

// closeOnInterrupt closes client when ctx ends or SIGINT/SIGTERM arrives,
// which releases any WaitEvent in progress. The returned context reports
// whether that happened.
func closeOnInterrupt(ctx context.Context, client *ipc.Client) (context.Context, context.CancelFunc) {
	signalCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signalCtx.Done():
			client.Close()
		case <-client.Done():
		}
	}()
	return signalCtx, cancel
}

// interruptedOr hides the stream-closed error caused by an interrupt.
func interruptedOr(ctx context.Context, err error) error {
	if errors.Is(err, ipc.ErrStreamClosed) && ctx.Err() != nil {
		return nil
	}
	return err
}

func dataString(data json.RawMessage) string {
	if len(data) == 0 {
		return "(none)"
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(data))
}
