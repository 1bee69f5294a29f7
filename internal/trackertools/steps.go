package trackertools

import (
	"context"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartStepTool handles the start_step MCP tool.
type StartStepTool struct {
	tracker *tracker.Tracker
}

// NewStartStepTool creates a StartStepTool.
func NewStartStepTool(tr *tracker.Tracker) *StartStepTool {
	return &StartStepTool{tracker: tr}
}

// Definition returns the MCP tool definition for start_step.
func (t *StartStepTool) Definition() mcp.Tool {
	return mcp.NewTool("start_step",
		mcp.WithDescription(
			"Start the next step of a project session. The step is numbered automatically "+
				"and stays in_progress until complete_step is called with the returned stepId.",
		),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
		mcp.WithString("stepType",
			mcp.Required(),
			mcp.Description("Kind of work this step performs"),
			mcp.Enum(store.StepTypeValues()...),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short step title"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What the step does"),
		),
		mcp.WithObject("input",
			mcp.Description("Input data for the step (optional)"),
		),
		mcp.WithObject("metadata",
			mcp.Description("Extra step information (optional)"),
		),
	)
}

// Handle processes the start_step tool call.
func (t *StartStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "step_started"

	sessionID := req.GetString("sessionId", "")
	title := req.GetString("title", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}
	if title == "" {
		return failureMsg(action, "'title' is required"), nil
	}
	stepType, err := enumArg(req, "stepType", store.StepTypeValues())
	if err != nil {
		return failure(action, err), nil
	}
	if stepType == "" {
		stepType = string(store.StepCustom)
	}

	id, err := t.tracker.StartStep(ctx,
		sessionID,
		store.StepType(stepType),
		title,
		req.GetString("description", ""),
		objArg(req, "input"),
		objArg(req, "metadata"),
	)
	if err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"stepId": id}), nil
}

// ─── CompleteStepTool ───────────────────────────────────────────────────────

// CompleteStepTool handles the complete_step MCP tool.
type CompleteStepTool struct {
	tracker *tracker.Tracker
}

// NewCompleteStepTool creates a CompleteStepTool.
func NewCompleteStepTool(tr *tracker.Tracker) *CompleteStepTool {
	return &CompleteStepTool{tracker: tr}
}

// Definition returns the MCP tool definition for complete_step.
func (t *CompleteStepTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_step",
		mcp.WithDescription(
			"Finish a started step. Its duration is measured from start_step. "+
				"A finished step cannot be completed again.",
		),
		mcp.WithString("stepId",
			mcp.Required(),
			mcp.Description("ID of the step to finish"),
		),
		mcp.WithString("status",
			mcp.Description("Final status (default: completed)"),
			mcp.Enum(string(store.StepCompleted), string(store.StepFailed), string(store.StepSkipped)),
		),
		mcp.WithObject("output",
			mcp.Description("Output produced by the step (optional)"),
		),
		mcp.WithString("errorMessage",
			mcp.Description("Error message when the step failed (optional)"),
		),
	)
}

// Handle processes the complete_step tool call.
func (t *CompleteStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "step_completed"

	stepID := req.GetString("stepId", "")
	if stepID == "" {
		return failureMsg(action, "'stepId' is required"), nil
	}

	err := t.tracker.CompleteStep(ctx,
		stepID,
		store.StepStatus(req.GetString("status", "")),
		objArg(req, "output"),
		req.GetString("errorMessage", ""),
	)
	if err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"message": "Step completed"}), nil
}

// ─── AddLogTool ─────────────────────────────────────────────────────────────

// AddLogTool handles the add_log MCP tool.
type AddLogTool struct {
	tracker *tracker.Tracker
}

// NewAddLogTool creates an AddLogTool.
func NewAddLogTool(tr *tracker.Tracker) *AddLogTool {
	return &AddLogTool{tracker: tr}
}

// Definition returns the MCP tool definition for add_log.
func (t *AddLogTool) Definition() mcp.Tool {
	return mcp.NewTool("add_log",
		mcp.WithDescription("Attach a log line to a step."),
		mcp.WithString("stepId",
			mcp.Required(),
			mcp.Description("ID of the step the log belongs to"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Log content"),
		),
		mcp.WithString("severity",
			mcp.Description("Log level (default: info)"),
			mcp.Enum(store.SeverityValues()...),
		),
		mcp.WithObject("metadata",
			mcp.Description("Extra log information (optional)"),
		),
	)
}

// Handle processes the add_log tool call.
func (t *AddLogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "log_added"

	stepID := req.GetString("stepId", "")
	content := req.GetString("content", "")
	if stepID == "" {
		return failureMsg(action, "'stepId' is required"), nil
	}
	if content == "" {
		return failureMsg(action, "'content' is required"), nil
	}
	severity, err := enumArg(req, "severity", store.SeverityValues())
	if err != nil {
		return failure(action, err), nil
	}

	id, err := t.tracker.AddLog(ctx, stepID, content, store.Severity(severity), objArg(req, "metadata"))
	if err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"logId": id, "message": "Log added"}), nil
}

// ─── ListStepsTool ──────────────────────────────────────────────────────────

// ListStepsTool handles the list_steps MCP tool.
type ListStepsTool struct {
	tracker *tracker.Tracker
}

// NewListStepsTool creates a ListStepsTool.
func NewListStepsTool(tr *tracker.Tracker) *ListStepsTool {
	return &ListStepsTool{tracker: tr}
}

// Definition returns the MCP tool definition for list_steps.
func (t *ListStepsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_steps",
		mcp.WithDescription("List the steps of a project session in step order."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
		mcp.WithString("status",
			mcp.Description("Only steps with this status (optional)"),
			mcp.Enum(store.StepStatusValues()...),
		),
	)
}

// Handle processes the list_steps tool call.
func (t *ListStepsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "steps_listed"

	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}
	status, err := enumArg(req, "status", store.StepStatusValues())
	if err != nil {
		return failure(action, err), nil
	}

	steps, err := t.tracker.ListSteps(ctx, sessionID, store.StepStatus(status))
	if err != nil {
		return failure(action, err), nil
	}
	return success(action,
		map[string]any{"steps": steps, "count": len(steps)},
		"filter", filterLabel(status),
	), nil
}

// ─── GetLogsTool ────────────────────────────────────────────────────────────

// GetLogsTool handles the get_logs MCP tool.
type GetLogsTool struct {
	tracker *tracker.Tracker
}

// NewGetLogsTool creates a GetLogsTool.
func NewGetLogsTool(tr *tracker.Tracker) *GetLogsTool {
	return &GetLogsTool{tracker: tr}
}

// Definition returns the MCP tool definition for get_logs.
func (t *GetLogsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_logs",
		mcp.WithDescription("List the log lines attached to a step, oldest first."),
		mcp.WithString("stepId",
			mcp.Required(),
			mcp.Description("Step ID"),
		),
	)
}

// Handle processes the get_logs tool call.
func (t *GetLogsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "logs_retrieved"

	stepID := req.GetString("stepId", "")
	if stepID == "" {
		return failureMsg(action, "'stepId' is required"), nil
	}
	logs, err := t.tracker.GetLogs(ctx, stepID)
	if err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"logs": logs, "count": len(logs)}), nil
}
