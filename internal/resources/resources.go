// Package resources implements MCP resource handlers for the project tracker.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (projtrack://...) following MCP conventions.
package resources

import (
	"context"
	"fmt"

	"github.com/HendryAvila/projtrack/internal/report"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

// recentSessions is the number of sessions listed by the sessions resource.
const recentSessions = 20

// Handler manages tracker resource endpoints.
type Handler struct {
	tracker *tracker.Tracker
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(tr *tracker.Tracker) *Handler {
	return &Handler{tracker: tr}
}

// SessionsResource returns the MCP resource definition for recent sessions.
func (h *Handler) SessionsResource() mcp.Resource {
	return mcp.NewResource(
		sessionsURI,
		"Recent project sessions",
		mcp.WithResourceDescription(fmt.Sprintf("The %d most recent project sessions, newest first", recentSessions)),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSessions returns the recent sessions as JSON.
func (h *Handler) HandleSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.tracker.ListSessions(ctx, "", recentSessions)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// ReportTemplate returns the MCP resource template for session reports.
func (h *Handler) ReportTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		reportTemplate,
		"Project session report",
		mcp.WithTemplateDescription("Markdown report of one project session, with its computed summary"),
		mcp.WithTemplateMIMEType("text/markdown"),
	)
}

// HandleReport renders the report of the session named in the URI.
func (h *Handler) HandleReport(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id, err := sessionIDFromURI(uri)
	if err != nil {
		return nil, err
	}

	r, err := h.tracker.GenerateReport(ctx, id)
	if err != nil {
		return errorResource(uri, err.Error()), nil
	}
	text, err := report.String(r, report.FormatMarkdown)
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}
