package trackertools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is an MCP tool handler.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// All returns every tracker tool, in registration order.
func All(tr *tracker.Tracker) []Tool {
	return []Tool{
		NewStartProjectTool(tr),
		NewStartStepTool(tr),
		NewCompleteStepTool(tr),
		NewAddLogTool(tr),
		NewUpdateMetricsTool(tr),
		NewAddInsightTool(tr),
		NewCompleteProjectTool(tr),
		NewGenerateReportTool(tr),
		NewGetProjectStatusTool(tr),
		NewListStepsTool(tr),
		NewGetLogsTool(tr),
		NewGetTimelineTool(tr),
		NewGetInsightsTool(tr),
		NewListSessionsTool(tr),
		NewStatsTool(tr),
	}
}

// Dispatcher routes calls by tool name outside an MCP transport.
type Dispatcher struct {
	tools map[string]Tool
	order []string
}

// NewDispatcher indexes tools by name.
func NewDispatcher(tools []Tool) *Dispatcher {
	d := &Dispatcher{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Definition().Name
		d.tools[name] = t
		d.order = append(d.order, name)
	}
	return d
}

// Names returns the registered tool names in registration order.
func (d *Dispatcher) Names() []string {
	return append([]string(nil), d.order...)
}

// Call invokes the named tool with args. An unknown name yields an error
// envelope, not a Go error.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, ok := d.tools[name]
	if !ok {
		return failureMsg(name, fmt.Sprintf("unknown tool: %s", name)), nil
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return t.Handle(ctx, req)
}
