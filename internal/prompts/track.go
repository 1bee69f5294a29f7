// Package prompts implements MCP prompt handlers for the project tracker.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// TrackPrompt handles the track-project MCP prompt.
// It tells the AI to record its work on a project step by step.
type TrackPrompt struct{}

// NewTrackPrompt creates a TrackPrompt.
func NewTrackPrompt() *TrackPrompt {
	return &TrackPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TrackPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("track-project",
		mcp.WithPromptDescription(
			"Track a piece of work as a project session. "+
				"The AI opens a session, records each step with its outcome, "+
				"and closes the session with a report.",
		),
		mcp.WithArgument("project_name",
			mcp.ArgumentDescription("Name of the project"),
		),
		mcp.WithArgument("goal",
			mcp.ArgumentDescription("What the work should achieve"),
		),
	)
}

// Handle processes the track-project prompt request.
func (p *TrackPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectName := "my-project"
	goal := "the task I am about to describe"
	if args := req.Params.Arguments; args != nil {
		if v := args["project_name"]; v != "" {
			projectName = v
		}
		if v := args["goal"]; v != "" {
			goal = v
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Track project: %s", projectName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Track your work on '%s' while you do it. The goal is: %s.\n\n"+
						"1. Run `start_project` with projectName='%s' and a one-line description. Keep the sessionId.\n"+
						"2. Before each discrete action (reading files, writing code, running commands, testing), "+
						"run `start_step` with the matching stepType and a short title.\n"+
						"3. When the action ends, run `complete_step` with status completed, failed or skipped. "+
						"Pass errorMessage when it failed. Use `add_log` for anything worth keeping.\n"+
						"4. Keep `update_metrics` current (files created/modified, lines of code, commands, errors).\n"+
						"5. Record noteworthy observations with `add_insight`.\n"+
						"6. Finish with `complete_project`, then `generate_report` with format='markdown' and show me the report.",
					projectName, goal, projectName,
				)),
			},
		},
	}, nil
}
