package trackertools

import (
	"context"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateMetricsTool handles the update_metrics MCP tool.
type UpdateMetricsTool struct {
	tracker *tracker.Tracker
}

// NewUpdateMetricsTool creates an UpdateMetricsTool.
func NewUpdateMetricsTool(tr *tracker.Tracker) *UpdateMetricsTool {
	return &UpdateMetricsTool{tracker: tr}
}

// Definition returns the MCP tool definition for update_metrics.
func (t *UpdateMetricsTool) Definition() mcp.Tool {
	return mcp.NewTool("update_metrics",
		mcp.WithDescription(
			"Update the metrics of a project session. Only the fields present in "+
				"'metrics' are changed; the rest keep their values.",
		),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
		mcp.WithObject("metrics",
			mcp.Required(),
			mcp.Description(
				"Fields to set: totalFiles, filesCreated, filesModified, filesDeleted, linesOfCode, "+
					"commandsExecuted, errorsEncountered, timeSpent (ms), complexity (low|medium|high), "+
					"efficiency (0-100)",
			),
			mcp.Properties(map[string]any{
				"totalFiles":        map[string]any{"type": "integer"},
				"filesCreated":      map[string]any{"type": "integer"},
				"filesModified":     map[string]any{"type": "integer"},
				"filesDeleted":      map[string]any{"type": "integer"},
				"linesOfCode":       map[string]any{"type": "integer"},
				"commandsExecuted":  map[string]any{"type": "integer"},
				"errorsEncountered": map[string]any{"type": "integer"},
				"timeSpent":         map[string]any{"type": "integer"},
				"complexity":        map[string]any{"type": "string", "enum": store.ComplexityValues()},
				"efficiency":        map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			}),
		),
	)
}

// Handle processes the update_metrics tool call.
func (t *UpdateMetricsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "metrics_updated"

	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}
	raw := objArg(req, "metrics")
	if raw == nil {
		return failureMsg(action, "'metrics' is required"), nil
	}
	p, err := metricsPatch(raw)
	if err != nil {
		return failure(action, err), nil
	}

	if err := t.tracker.UpdateMetrics(ctx, sessionID, p); err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"message": "Metrics updated"}), nil
}

// metricsPatch reads the recognized fields of m. Unknown keys are ignored.
func metricsPatch(m store.Metadata) (store.MetricsPatch, error) {
	var p store.MetricsPatch
	ints := map[string]**int{
		"totalFiles":        &p.TotalFiles,
		"filesCreated":      &p.FilesCreated,
		"filesModified":     &p.FilesModified,
		"filesDeleted":      &p.FilesDeleted,
		"linesOfCode":       &p.LinesOfCode,
		"commandsExecuted":  &p.CommandsExecuted,
		"errorsEncountered": &p.ErrorsEncountered,
		"efficiency":        &p.Efficiency,
	}
	for key, dst := range ints {
		if v, ok := number(m[key]); ok {
			n := int(v)
			*dst = &n
		}
	}
	if v, ok := number(m["timeSpent"]); ok {
		p.TimeSpent = &v
	}
	if v, ok := m["complexity"].(string); ok {
		c := store.Complexity(v)
		switch c {
		case store.ComplexityLow, store.ComplexityMedium, store.ComplexityHigh:
			p.Complexity = &c
		default:
			return p, errInvalid("complexity", v)
		}
	}
	if p.Efficiency != nil && (*p.Efficiency < 0 || *p.Efficiency > 100) {
		return p, errInvalid("efficiency", *p.Efficiency)
	}
	return p, nil
}

// ─── AddInsightTool ─────────────────────────────────────────────────────────

// AddInsightTool handles the add_insight MCP tool.
type AddInsightTool struct {
	tracker *tracker.Tracker
}

// NewAddInsightTool creates an AddInsightTool.
func NewAddInsightTool(tr *tracker.Tracker) *AddInsightTool {
	return &AddInsightTool{tracker: tr}
}

// Definition returns the MCP tool definition for add_insight.
func (t *AddInsightTool) Definition() mcp.Tool {
	return mcp.NewTool("add_insight",
		mcp.WithDescription("Record an observation about the project: a pattern, recommendation, warning, optimization or milestone."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
		mcp.WithString("insightType",
			mcp.Required(),
			mcp.Description("Kind of insight"),
			mcp.Enum(store.InsightTypeValues()...),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Insight title"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Insight details"),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence 0-100 (default: 85)"),
			mcp.Min(0),
			mcp.Max(100),
		),
		mcp.WithObject("metadata",
			mcp.Description("Extra insight information (optional)"),
		),
	)
}

// Handle processes the add_insight tool call.
func (t *AddInsightTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "insight_added"

	sessionID := req.GetString("sessionId", "")
	title := req.GetString("title", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}
	if title == "" {
		return failureMsg(action, "'title' is required"), nil
	}
	insightType, err := enumArg(req, "insightType", store.InsightTypeValues())
	if err != nil {
		return failure(action, err), nil
	}
	if insightType == "" {
		return failureMsg(action, "'insightType' is required"), nil
	}
	confidence := optIntArg(req, "confidence")
	if confidence != nil && (*confidence < 0 || *confidence > 100) {
		return failure(action, errInvalid("confidence", *confidence)), nil
	}

	id, err := t.tracker.AddInsight(ctx, sessionID, tracker.InsightInput{
		Type:        store.InsightType(insightType),
		Title:       title,
		Description: req.GetString("description", ""),
		Confidence:  confidence,
		Metadata:    objArg(req, "metadata"),
	})
	if err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"insightId": id}), nil
}

// ─── GetInsightsTool ────────────────────────────────────────────────────────

// GetInsightsTool handles the get_insights MCP tool.
type GetInsightsTool struct {
	tracker *tracker.Tracker
}

// NewGetInsightsTool creates a GetInsightsTool.
func NewGetInsightsTool(tr *tracker.Tracker) *GetInsightsTool {
	return &GetInsightsTool{tracker: tr}
}

// Definition returns the MCP tool definition for get_insights.
func (t *GetInsightsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_insights",
		mcp.WithDescription("List the insights of a project session, newest first."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
		mcp.WithString("insightType",
			mcp.Description("Only insights of this type (optional)"),
			mcp.Enum(store.InsightTypeValues()...),
		),
	)
}

// Handle processes the get_insights tool call.
func (t *GetInsightsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "insights_retrieved"

	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}
	insightType, err := enumArg(req, "insightType", store.InsightTypeValues())
	if err != nil {
		return failure(action, err), nil
	}

	insights, err := t.tracker.GetInsights(ctx, sessionID, store.InsightType(insightType))
	if err != nil {
		return failure(action, err), nil
	}
	return success(action,
		map[string]any{"insights": insights, "count": len(insights)},
		"filter", filterLabel(insightType),
	), nil
}

// ─── GetTimelineTool ────────────────────────────────────────────────────────

// GetTimelineTool handles the get_timeline MCP tool.
type GetTimelineTool struct {
	tracker *tracker.Tracker
}

// NewGetTimelineTool creates a GetTimelineTool.
func NewGetTimelineTool(tr *tracker.Tracker) *GetTimelineTool {
	return &GetTimelineTool{tracker: tr}
}

// Definition returns the MCP tool definition for get_timeline.
func (t *GetTimelineTool) Definition() mcp.Tool {
	return mcp.NewTool("get_timeline",
		mcp.WithDescription("Get the chronological event timeline of a project session."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
		mcp.WithString("eventType",
			mcp.Description("Only events of this type (optional)"),
			mcp.Enum(store.EventTypeValues()...),
		),
	)
}

// Handle processes the get_timeline tool call.
func (t *GetTimelineTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "timeline_retrieved"

	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}
	eventType, err := enumArg(req, "eventType", store.EventTypeValues())
	if err != nil {
		return failure(action, err), nil
	}

	events, err := t.tracker.GetTimeline(ctx, sessionID, store.EventType(eventType))
	if err != nil {
		return failure(action, err), nil
	}
	return success(action,
		map[string]any{"timeline": events, "count": len(events)},
		"filter", filterLabel(eventType),
	), nil
}
