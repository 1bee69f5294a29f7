package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReportPrompt handles the project-report MCP prompt.
// It instructs the AI to fetch and explain a session report.
type ReportPrompt struct{}

// NewReportPrompt creates a ReportPrompt.
func NewReportPrompt() *ReportPrompt {
	return &ReportPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReportPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("project-report",
		mcp.WithPromptDescription(
			"Review a tracked project session: completion, efficiency, "+
				"challenges and what to do next.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Session to review. Default: the most recent one"),
		),
	)
}

// Handle processes the project-report prompt request.
func (p *ReportPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	target := "Run `list_sessions` with limit=1 to find the most recent session, then run `generate_report` for it."
	if args := req.Params.Arguments; args != nil {
		if id := args["session_id"]; id != "" {
			target = fmt.Sprintf("Run `generate_report` with sessionId='%s'.", id)
		}
	}

	return &mcp.GetPromptResult{
		Description: "Project session review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					target + "\n\n" +
						"Then:\n" +
						"1. Summarize the outcome: overall status, completion and efficiency\n" +
						"2. List the failed steps and what went wrong, using `list_steps` with status='failed' if needed\n" +
						"3. Point out the insights with the highest confidence\n" +
						"4. Suggest the next steps, starting with any pending ones",
				),
			},
		},
	}, nil
}
