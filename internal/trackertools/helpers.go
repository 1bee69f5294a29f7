// Package trackertools provides the MCP tool handlers of the project tracker.
//
// Each tool handler follows the same pattern:
// - A struct with its dependencies (tracker.Tracker) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Every result is a JSON envelope: {"success": true, "data": ..., "metadata": ...}
// on success, {"success": false, "error": ..., "metadata": ...} on failure.
// Failures are also flagged with IsError on the CallToolResult.
package trackertools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// timeNow is replaceable in tests.
var timeNow = time.Now

// envelope is the response shape shared by every tool.
type envelope struct {
	Success  bool           `json:"success"`
	Data     any            `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata"`
}

func meta(action string, extra ...any) map[string]any {
	m := map[string]any{
		"action":    action,
		"timestamp": timeNow().UTC().Format(time.RFC3339Nano),
	}
	for i := 0; i+1 < len(extra); i += 2 {
		if k, ok := extra[i].(string); ok {
			m[k] = extra[i+1]
		}
	}
	return m
}

// success wraps data in a success envelope. extra holds key/value pairs
// merged into metadata.
func success(action string, data any, extra ...any) *mcp.CallToolResult {
	b, err := json.Marshal(envelope{Success: true, Data: data, Metadata: meta(action, extra...)})
	if err != nil {
		return failure(action, fmt.Errorf("encoding result: %w", err))
	}
	return mcp.NewToolResultText(string(b))
}

// failure wraps err in an error envelope.
func failure(action string, err error) *mcp.CallToolResult {
	return failureMsg(action, err.Error())
}

func failureMsg(action, msg string) *mcp.CallToolResult {
	b, _ := json.Marshal(envelope{Success: false, Error: msg, Metadata: meta(action)})
	return mcp.NewToolResultError(string(b))
}

// filterLabel returns v, or "none" when v is empty.
func filterLabel(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

// number converts a decoded JSON number to int64. Go ints are accepted
// for callers that build arguments in-process.
func number(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	n, ok := number(req.GetArguments()[key])
	if !ok {
		return defaultVal
	}
	return int(n)
}

// optIntArg is intArg returning nil when the key is absent.
func optIntArg(req mcp.CallToolRequest, key string) *int {
	if _, ok := req.GetArguments()[key]; !ok {
		return nil
	}
	v := intArg(req, key, 0)
	return &v
}

// objArg extracts an object argument as metadata. Missing or non-object
// values yield nil.
func objArg(req mcp.CallToolRequest, key string) store.Metadata {
	m, ok := req.GetArguments()[key].(map[string]any)
	if !ok {
		return nil
	}
	return store.Metadata(m)
}

// enumArg reads a string argument and rejects it unless it is empty or one
// of valid.
func enumArg(req mcp.CallToolRequest, key string, valid []string) (string, error) {
	v := req.GetString(key, "")
	if v == "" {
		return "", nil
	}
	for _, ok := range valid {
		if v == ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q", key, v)
}

func errInvalid(key string, v any) error {
	return fmt.Errorf("invalid %s %v", key, v)
}
