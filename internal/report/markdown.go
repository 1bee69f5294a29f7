package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/projtrack/internal/tracker"
)

func renderMarkdown(w io.Writer, r *tracker.Report) error {
	var sb strings.Builder
	s, sum, m := r.Session, r.Summary, r.Metrics

	fmt.Fprintf(&sb, "# Project Report: %s\n\n", s.ProjectName)
	if s.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", s.Description)
	}
	fmt.Fprintf(&sb, "- **Session**: `%s`\n", s.ID)
	fmt.Fprintf(&sb, "- **AI model**: %s\n", s.AIModel)
	fmt.Fprintf(&sb, "- **Status**: %s\n", s.Status)
	fmt.Fprintf(&sb, "- **Started**: %s\n", formatTime(s.StartTime))
	if s.EndTime != nil {
		fmt.Fprintf(&sb, "- **Ended**: %s\n", formatTime(*s.EndTime))
	}

	sb.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&sb, "| Completion | Efficiency | Total time | Outcome |\n")
	fmt.Fprintf(&sb, "|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| %d%% | %d%% | %ds | %s |\n",
		sum.CompletionPercentage, sum.EfficiencyScore, seconds(sum.TotalTimeSpent), sum.OverallStatus)

	writeList(&sb, "Key achievements", sum.KeyAchievements)
	writeList(&sb, "Main challenges", sum.MainChallenges)
	writeList(&sb, "Next steps", sum.NextSteps)

	sb.WriteString("\n## Steps\n\n")
	if len(r.Steps) == 0 {
		sb.WriteString("_No steps recorded._\n")
	} else {
		sb.WriteString("| # | Title | Type | Status | Duration |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, st := range r.Steps {
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
				st.StepNumber, escapeCell(st.Title), st.StepType, st.Status, stepDuration(st.Duration))
		}
	}

	sb.WriteString("\n## Metrics\n\n")
	fmt.Fprintf(&sb, "- Files: %d total, %d created, %d modified, %d deleted\n",
		m.TotalFiles, m.FilesCreated, m.FilesModified, m.FilesDeleted)
	fmt.Fprintf(&sb, "- Lines of code: %d\n", m.LinesOfCode)
	fmt.Fprintf(&sb, "- Commands executed: %d\n", m.CommandsExecuted)
	fmt.Fprintf(&sb, "- Errors encountered: %d\n", m.ErrorsEncountered)
	fmt.Fprintf(&sb, "- Complexity: %s\n", m.Complexity)

	if len(r.Insights) > 0 {
		sb.WriteString("\n## Insights\n\n")
		for _, in := range r.Insights {
			fmt.Fprintf(&sb, "- **%s** (%s, %d%% confidence): %s\n", in.Title, in.InsightType, in.Confidence, in.Description)
		}
	}

	if len(r.Timeline) > 0 {
		sb.WriteString("\n## Timeline\n\n")
		for _, ev := range r.Timeline {
			fmt.Fprintf(&sb, "- `%s` **%s**", formatTime(ev.Timestamp), ev.Title)
			if ev.Description != nil && *ev.Description != "" {
				fmt.Fprintf(&sb, ": %s", *ev.Description)
			}
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n### %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(sb, "- %s\n", it)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
