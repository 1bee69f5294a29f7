package resources

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	sessionsURI    = "projtrack://sessions"
	reportTemplate = "projtrack://sessions/{id}/report"
)

// sessionIDFromURI extracts {id} from a projtrack://sessions/{id}/report URI.
func sessionIDFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, sessionsURI+"/")
	if !ok {
		return "", fmt.Errorf("unexpected resource URI %q", uri)
	}
	id, ok := strings.CutSuffix(rest, "/report")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("unexpected resource URI %q", uri)
	}
	return id, nil
}

// jsonResource marshals v as an indented JSON resource.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
