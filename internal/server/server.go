// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the store, tracker and telemetry
// recorder and injects them into the tools, prompts and resources.
// No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HendryAvila/projtrack/internal/config"
	"github.com/HendryAvila/projtrack/internal/prompts"
	"github.com/HendryAvila/projtrack/internal/resources"
	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/telemetry"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/HendryAvila/projtrack/internal/trackertools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// OpenTracker opens the store and telemetry recorder described by cfg and
// returns a Tracker over them.
//
// The returned cleanup function flushes telemetry and closes the store's
// database connection. It is always non-nil and safe to call on error.
func OpenTracker(ctx context.Context, cfg config.Config, log *slog.Logger) (*tracker.Tracker, func(), error) {
	st, err := store.New(cfg.Store())
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}

	rec, err := telemetry.New(ctx, Version, cfg.Telemetry)
	if err != nil {
		// Metrics are optional; the tracker works without them.
		log.Warn("telemetry disabled", "err", err)
		rec = telemetry.Noop{}
	}

	cleanup := func() {
		if err := rec.Close(context.Background()); err != nil {
			log.Warn("telemetry shutdown", "err", err)
		}
		if err := st.Close(); err != nil {
			log.Warn("store close", "err", err)
		}
	}

	tr := tracker.New(st,
		tracker.WithLogger(log),
		tracker.WithRecorder(rec),
		tracker.WithDefaultAIModel(cfg.DefaultAIModel),
	)
	log.Debug("tracker ready", "db", st.Path())
	return tr, cleanup, nil
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function must be called on shutdown (typically
// via defer).
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*server.MCPServer, func(), error) {
	tr, cleanup, err := OpenTracker(ctx, cfg, log)
	if err != nil {
		return nil, noop, err
	}

	s := server.NewMCPServer(
		"projtrack",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	for _, tool := range trackertools.All(tr) {
		s.AddTool(tool.Definition(), tool.Handle)
	}

	// --- Register prompts ---

	trackPrompt := prompts.NewTrackPrompt()
	s.AddPrompt(trackPrompt.Definition(), trackPrompt.Handle)

	reportPrompt := prompts.NewReportPrompt()
	s.AddPrompt(reportPrompt.Definition(), reportPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(tr)
	s.AddResource(resourceHandler.SessionsResource(), resourceHandler.HandleSessions)
	s.AddResourceTemplate(resourceHandler.ReportTemplate(), resourceHandler.HandleReport)

	return s, cleanup, nil
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use projtrack.
func serverInstructions() string {
	return `You have access to projtrack, a project activity tracker.

## WHEN TO USE projtrack

Track your work whenever the user asks you to build, change, debug or
investigate something that takes more than a couple of actions. Do not
track single answers or one-line edits.

## LIFECYCLE

1. start_project once per piece of work. Keep the returned sessionId.
2. start_step before each discrete action. Pick the closest stepType:
   analysis, file_read, file_write, code_generation, dependency_install,
   command_execution, testing, debugging, optimization, deployment,
   documentation, research, planning, review or custom.
3. complete_step when the action ends, with status completed, failed or
   skipped. Pass errorMessage on failure. Durations are measured for you.
4. add_log to attach command output or notes to a step.
5. update_metrics with only the counters that changed.
6. add_insight for patterns, recommendations, warnings, optimizations and
   milestones worth remembering.
7. complete_project with completed or failed when the work is done.

## READING

- get_project_status, list_steps, get_timeline, get_insights, get_logs
  and list_sessions read stored state.
- generate_report computes completion and efficiency and renders the
  session as json, markdown, text, yaml or html.

Every tool answers with a JSON envelope: {"success", "data", "metadata"}
or {"success": false, "error", "metadata"}.`
}
