package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/charmbracelet/lipgloss"
)

// maxTextInsights caps the insights listed in the text format.
const maxTextInsights = 5

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	achievementStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	challengeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	metricsStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	insightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))
)

type textWriter struct {
	sb    strings.Builder
	color bool
}

func (t *textWriter) line(style lipgloss.Style, format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if t.color {
		s = style.Render(s)
	}
	t.sb.WriteString(s)
	t.sb.WriteByte('\n')
}

func (t *textWriter) plain(format string, args ...any) {
	fmt.Fprintf(&t.sb, format, args...)
	t.sb.WriteByte('\n')
}

func renderText(w io.Writer, r *tracker.Report, color bool) error {
	t := &textWriter{color: color}
	s := r.Session

	t.line(bannerStyle, "=== PROJECT REPORT ===")
	t.line(projectStyle, "Project: %s", s.ProjectName)
	t.line(dimStyle, "Description: %s", s.Description)
	t.line(dimStyle, "AI model: %s", s.AIModel)
	t.line(dimStyle, "Started: %s", formatTime(s.StartTime))
	if s.EndTime != nil {
		t.line(dimStyle, "Ended: %s", formatTime(*s.EndTime))
	}

	sum := r.Summary
	t.plain("")
	t.line(summaryStyle, "SUMMARY")
	t.plain("• Completion: %d%%", sum.CompletionPercentage)
	t.plain("• Efficiency: %d%%", sum.EfficiencyScore)
	t.plain("• Total time: %ds", seconds(sum.TotalTimeSpent))
	t.plain("• Status: %s", sum.OverallStatus)

	if len(sum.KeyAchievements) > 0 {
		t.plain("")
		t.line(summaryStyle, "ACHIEVEMENTS")
		for _, a := range sum.KeyAchievements {
			t.line(achievementStyle, "• %s", a)
		}
	}
	if len(sum.MainChallenges) > 0 {
		t.plain("")
		t.line(challengeStyle.Bold(true), "CHALLENGES")
		for _, c := range sum.MainChallenges {
			t.line(challengeStyle, "• %s", c)
		}
	}
	if len(sum.NextSteps) > 0 {
		t.plain("")
		t.line(summaryStyle, "NEXT STEPS")
		for _, n := range sum.NextSteps {
			t.plain("• %s", n)
		}
	}

	m := r.Metrics
	t.plain("")
	t.line(metricsStyle, "METRICS")
	t.plain("• Total files: %d", m.TotalFiles)
	t.plain("• Created: %d", m.FilesCreated)
	t.plain("• Modified: %d", m.FilesModified)
	t.plain("• Lines of code: %d", m.LinesOfCode)
	t.plain("• Commands: %d", m.CommandsExecuted)
	t.plain("• Errors: %d", m.ErrorsEncountered)

	if len(r.Insights) > 0 {
		t.plain("")
		t.line(insightStyle.Bold(true), "INSIGHTS")
		for i, in := range r.Insights {
			if i == maxTextInsights {
				break
			}
			t.line(insightStyle, "• %s (%d%%)", in.Title, in.Confidence)
		}
	}

	_, err := io.WriteString(w, t.sb.String())
	return err
}
