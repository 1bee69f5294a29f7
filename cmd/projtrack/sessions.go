package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

type sessionsOptions struct {
	status string
	limit  int
	match  string
}

func newSessionsCmd(flags *globalFlags) *cobra.Command {
	var opts sessionsOptions

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recent project sessions",
		Example: `  projtrack sessions --status active
  projtrack sessions --match "auth api" --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.status != "" && !slices.Contains(store.SessionStatusValues(), opts.status) {
				return fmt.Errorf("invalid status %q (valid: %v)", opts.status, store.SessionStatusValues())
			}
			return flags.withTracker(cmd, func(ctx context.Context, tr *tracker.Tracker) error {
				return listSessions(ctx, cmd.OutOrStdout(), tr, opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.status, "status", "", "only sessions with this status")
	cmd.Flags().IntVar(&opts.limit, "limit", tracker.DefaultListLimit, "maximum sessions to show")
	cmd.Flags().StringVar(&opts.match, "match", "", "fuzzy filter on project name and description")
	return cmd
}

func listSessions(ctx context.Context, w io.Writer, tr *tracker.Tracker, opts sessionsOptions) error {
	limit := opts.limit
	if opts.match != "" {
		// Match over the widest window, then trim.
		limit = tracker.MaxListLimit
	}
	sessions, err := tr.ListSessions(ctx, store.SessionStatus(opts.status), limit)
	if err != nil {
		return err
	}
	if opts.match != "" {
		sessions = matchSessions(sessions, opts.match)
		if opts.limit > 0 && len(sessions) > opts.limit {
			sessions = sessions[:opts.limit]
		}
	}

	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}
	fmt.Fprintln(w, sessionsTable(sessions))
	return nil
}

// sessionSource adapts sessions to fuzzy.Source.
type sessionSource []store.Session

func (s sessionSource) String(i int) string {
	return s[i].ProjectName + " " + s[i].Description
}

func (s sessionSource) Len() int { return len(s) }

// matchSessions keeps the sessions matching pattern, best match first.
func matchSessions(sessions []store.Session, pattern string) []store.Session {
	matches := fuzzy.FindFrom(pattern, sessionSource(sessions))
	out := make([]store.Session, 0, len(matches))
	for _, m := range matches {
		out = append(out, sessions[m.Index])
	}
	return out
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	statusStyle = map[store.SessionStatus]lipgloss.Style{
		store.SessionActive:    cellStyle.Foreground(lipgloss.Color("12")),
		store.SessionCompleted: cellStyle.Foreground(lipgloss.Color("10")),
		store.SessionFailed:    cellStyle.Foreground(lipgloss.Color("9")),
		store.SessionPaused:    cellStyle.Foreground(lipgloss.Color("11")),
	}
)

const statusColumn = 2

func sessionsTable(sessions []store.Session) string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.ProjectName,
			string(s.Status),
			fmt.Sprintf("%d/%d", s.CurrentStep, s.TotalSteps),
			s.AIModel,
			s.StartTime.Local().Format(time.DateTime),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "PROJECT", "STATUS", "STEPS", "MODEL", "STARTED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusColumn && row >= 0 && row < len(sessions) {
				if st, ok := statusStyle[sessions[row].Status]; ok {
					return st
				}
			}
			return cellStyle
		}).
		String()
}
