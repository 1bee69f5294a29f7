package trackertools

import (
	"context"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartProjectTool handles the start_project MCP tool.
type StartProjectTool struct {
	tracker *tracker.Tracker
}

// NewStartProjectTool creates a StartProjectTool.
func NewStartProjectTool(tr *tracker.Tracker) *StartProjectTool {
	return &StartProjectTool{tracker: tr}
}

// Definition returns the MCP tool definition for start_project.
func (t *StartProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("start_project",
		mcp.WithDescription(
			"Start a new project tracking session. Call this once at the beginning of a "+
				"piece of work and keep the returned sessionId for every later call.",
		),
		mcp.WithString("projectName",
			mcp.Required(),
			mcp.Description("Project name"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What the project is about"),
		),
		mcp.WithString("aiModel",
			mcp.Description("AI model doing the work (default: "+tracker.DefaultAIModel+")"),
		),
		mcp.WithObject("metadata",
			mcp.Description("Extra project information (optional)"),
		),
	)
}

// Handle processes the start_project tool call.
func (t *StartProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "project_started"

	name := req.GetString("projectName", "")
	if name == "" {
		return failureMsg(action, "'projectName' is required"), nil
	}

	id, err := t.tracker.StartProject(ctx,
		name,
		req.GetString("description", ""),
		req.GetString("aiModel", ""),
		objArg(req, "metadata"),
	)
	if err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"sessionId": id}), nil
}

// ─── CompleteProjectTool ────────────────────────────────────────────────────

// CompleteProjectTool handles the complete_project MCP tool.
type CompleteProjectTool struct {
	tracker *tracker.Tracker
}

// NewCompleteProjectTool creates a CompleteProjectTool.
func NewCompleteProjectTool(tr *tracker.Tracker) *CompleteProjectTool {
	return &CompleteProjectTool{tracker: tr}
}

// Definition returns the MCP tool definition for complete_project.
func (t *CompleteProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_project",
		mcp.WithDescription("Close a project session as completed or failed."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
		mcp.WithString("status",
			mcp.Description("Final status (default: completed)"),
			mcp.Enum(string(store.SessionCompleted), string(store.SessionFailed)),
		),
	)
}

// Handle processes the complete_project tool call.
func (t *CompleteProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "project_completed"

	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}

	status := store.SessionStatus(req.GetString("status", ""))
	if err := t.tracker.CompleteProject(ctx, sessionID, status); err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"message": "Project completed"}), nil
}

// ─── GetProjectStatusTool ───────────────────────────────────────────────────

// GetProjectStatusTool handles the get_project_status MCP tool.
type GetProjectStatusTool struct {
	tracker *tracker.Tracker
}

// NewGetProjectStatusTool creates a GetProjectStatusTool.
func NewGetProjectStatusTool(tr *tracker.Tracker) *GetProjectStatusTool {
	return &GetProjectStatusTool{tracker: tr}
}

// Definition returns the MCP tool definition for get_project_status.
func (t *GetProjectStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project_status",
		mcp.WithDescription("Get the current state of a project session: status, step counters and timestamps."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Project session ID"),
		),
	)
}

// Handle processes the get_project_status tool call.
func (t *GetProjectStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "status_retrieved"

	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return failureMsg(action, "'sessionId' is required"), nil
	}

	session, err := t.tracker.GetStatus(ctx, sessionID)
	if err != nil {
		return failure(action, err), nil
	}
	return success(action, map[string]any{"session": session}), nil
}

// ─── ListSessionsTool ───────────────────────────────────────────────────────

// ListSessionsTool handles the list_sessions MCP tool.
type ListSessionsTool struct {
	tracker *tracker.Tracker
}

// NewListSessionsTool creates a ListSessionsTool.
func NewListSessionsTool(tr *tracker.Tracker) *ListSessionsTool {
	return &ListSessionsTool{tracker: tr}
}

// Definition returns the MCP tool definition for list_sessions.
func (t *ListSessionsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_sessions",
		mcp.WithDescription("List project sessions, newest first."),
		mcp.WithString("status",
			mcp.Description("Only sessions with this status (optional)"),
			mcp.Enum(store.SessionStatusValues()...),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of sessions (default: 10, max: 100)"),
			mcp.Min(1),
			mcp.Max(tracker.MaxListLimit),
		),
	)
}

// Handle processes the list_sessions tool call.
func (t *ListSessionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "sessions_listed"

	status, err := enumArg(req, "status", store.SessionStatusValues())
	if err != nil {
		return failure(action, err), nil
	}
	limit := intArg(req, "limit", 0)

	sessions, err := t.tracker.ListSessions(ctx, store.SessionStatus(status), limit)
	if err != nil {
		return failure(action, err), nil
	}

	limitLabel := any("none")
	if limit > 0 {
		limitLabel = limit
	}
	return success(action,
		map[string]any{"sessions": sessions, "count": len(sessions)},
		"filter", filterLabel(status),
		"limit", limitLabel,
	), nil
}
