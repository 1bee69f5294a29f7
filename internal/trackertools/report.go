package trackertools

import (
	"context"

	"github.com/HendryAvila/projtrack/internal/report"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

// GenerateReportTool handles the generate_report MCP tool.
type GenerateReportTool struct {
	tracker *tracker.Tracker
}

// NewGenerateReportTool creates a GenerateReportTool.
func NewGenerateReportTool(tr *tracker.Tracker) *GenerateReportTool {
	return &GenerateReportTool{tracker: tr}
}

// Definition returns the MCP tool definition for generate_report.
func (t *GenerateReportTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_report",
		mcp.WithDescription(
			"Build the full report of a project session: session, steps, metrics, insights, "+
				"timeline and a computed summary with completion and efficiency scores.",
		),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
		mcp.WithString("format",
			mcp.Description("Report format (default: json)"),
			mcp.Enum(report.Formats()...),
		),
	)
}

// Handle processes the generate_report tool call.
func (t *GenerateReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "report_generated"

	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}
	format, err := report.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return failure(action, err), nil
	}

	r, err := t.tracker.GenerateReport(ctx, sessionID)
	if err != nil {
		return failure(action, err), nil
	}

	if format == report.FormatJSON {
		return success(action,
			map[string]any{"report": r, "format": format},
			"format", format,
		), nil
	}

	rendered, err := report.String(r, format)
	if err != nil {
		return failure(action, err), nil
	}
	return success(action,
		map[string]any{"report": rendered, "format": format},
		"format", format,
	), nil
}

// ─── StatsTool ──────────────────────────────────────────────────────────────

// StatsTool handles the tracker_stats MCP tool.
type StatsTool struct {
	tracker *tracker.Tracker
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(tr *tracker.Tracker) *StatsTool {
	return &StatsTool{tracker: tr}
}

// Definition returns the MCP tool definition for tracker_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("tracker_stats",
		mcp.WithDescription("Show tracker statistics: sessions by status, steps, insights, events and projects tracked."),
	)
}

// Handle processes the tracker_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "stats_retrieved"

	stats, err := t.tracker.Stats(ctx)
	if err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"stats": stats}), nil
}
