package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/spf13/cobra"
)

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show tracker statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withTracker(cmd, func(ctx context.Context, tr *tracker.Tracker) error {
				stats, err := tr.Stats(ctx)
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
}

func printStats(w io.Writer, s *store.Stats) {
	fmt.Fprintf(w, "Sessions:  %d\n", s.TotalSessions)
	for _, status := range store.SessionStatusValues() {
		if n := s.SessionsByStatus[status]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", status, n)
		}
	}
	fmt.Fprintf(w, "Steps:     %d\n", s.TotalSteps)
	fmt.Fprintf(w, "Logs:      %d\n", s.TotalDetails)
	fmt.Fprintf(w, "Insights:  %d\n", s.TotalInsights)
	fmt.Fprintf(w, "Events:    %d\n", s.TotalEvents)

	projects := slices.Clone(s.Projects)
	slices.Sort(projects)
	if len(projects) == 0 {
		projects = []string{"none"}
	}
	fmt.Fprintf(w, "Projects:  %s\n", strings.Join(projects, ", "))
}
