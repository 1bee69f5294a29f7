package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/HendryAvila/projtrack/internal/trackertools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func newCallCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Invoke a tracker tool directly and print its JSON envelope",
		Long: `Invoke one of the MCP tools without an MCP client. Arguments are a JSON
object matching the tool's input schema. Exits non-zero when the envelope
reports failure.`,
		Example: `  projtrack call start_project '{"projectName":"demo"}'
  projtrack call list_sessions '{"status":"active","limit":5}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var toolArgs map[string]any
			if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
				if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
					return fmt.Errorf("parsing tool arguments: %w", err)
				}
			}
			return flags.withTracker(cmd, func(ctx context.Context, tr *tracker.Tracker) error {
				d := trackertools.NewDispatcher(trackertools.All(tr))
				res, err := d.Call(ctx, args[0], toolArgs)
				if err != nil {
					return err
				}
				for _, c := range res.Content {
					if tc, ok := c.(mcp.TextContent); ok {
						fmt.Fprintln(cmd.OutOrStdout(), tc.Text)
					}
				}
				if res.IsError {
					return fmt.Errorf("tool %s failed", args[0])
				}
				return nil
			})
		},
	}
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return trackertools.NewDispatcher(trackertools.All(nil)).Names(), cobra.ShellCompDirectiveNoFileComp
	}
	return cmd
}
