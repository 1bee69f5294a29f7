package main

import (
	"context"
	"os"

	"github.com/HendryAvila/projtrack/internal/report"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal is replaceable in tests.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

func newReportCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report <session-id>",
		Short: "Render the report of a project session",
		Example: `  projtrack report 1f0c... --format markdown > REPORT.md
  projtrack report 1f0c... --format html > report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			return flags.withTracker(cmd, func(ctx context.Context, tr *tracker.Tracker) error {
				r, err := tr.GenerateReport(ctx, args[0])
				if err != nil {
					return err
				}
				return report.Render(cmd.OutOrStdout(), r, f, report.WithColor(isTerminal()))
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "output format: json, yaml, markdown, text, html")
	return cmd
}
