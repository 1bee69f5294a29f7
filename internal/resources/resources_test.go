package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

func newTestHandler(t *testing.T) (*Handler, *tracker.Tracker) {
	t.Helper()
	st, err := store.New(store.Config{DataDir: t.TempDir(), DBFile: "test.db"})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	tr := tracker.New(st)
	return NewHandler(tr), tr
}

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func text(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] = %T", contents[0])
	}
	return tc.Text
}

func TestSessionIDFromURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"projtrack://sessions/abc/report", "abc", false},
		{"projtrack://sessions//report", "", true},
		{"projtrack://sessions/a/b/report", "", true},
		{"projtrack://sessions/abc", "", true},
		{"sdd://project/status", "", true},
	}
	for _, tt := range tests {
		got, err := sessionIDFromURI(tt.uri)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("sessionIDFromURI(%q) = %q, %v", tt.uri, got, err)
		}
	}
}

func TestHandleSessions(t *testing.T) {
	h, tr := newTestHandler(t)
	if _, err := tr.StartProject(context.Background(), "alpha", "", "", nil); err != nil {
		t.Fatalf("StartProject: %v", err)
	}

	contents, err := h.HandleSessions(context.Background(), readReq(sessionsURI))
	if err != nil {
		t.Fatalf("HandleSessions: %v", err)
	}
	var got struct {
		Count    int `json:"count"`
		Sessions []struct {
			ProjectName string `json:"projectName"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(text(t, contents)), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Count != 1 || got.Sessions[0].ProjectName != "alpha" {
		t.Errorf("got = %+v", got)
	}
}

func TestHandleReport(t *testing.T) {
	h, tr := newTestHandler(t)
	id, err := tr.StartProject(context.Background(), "beta", "", "", nil)
	if err != nil {
		t.Fatalf("StartProject: %v", err)
	}

	contents, err := h.HandleReport(context.Background(), readReq("projtrack://sessions/"+id+"/report"))
	if err != nil {
		t.Fatalf("HandleReport: %v", err)
	}
	if got := text(t, contents); !strings.Contains(got, "# Project Report: beta") {
		t.Errorf("report = %s", got)
	}

	contents, err = h.HandleReport(context.Background(), readReq("projtrack://sessions/missing/report"))
	if err != nil {
		t.Fatalf("HandleReport(missing): %v", err)
	}
	if got := text(t, contents); !strings.HasPrefix(got, "Error:") {
		t.Errorf("missing session = %s", got)
	}
}

func TestDefinitions(t *testing.T) {
	h, _ := newTestHandler(t)
	if r := h.SessionsResource(); r.URI != sessionsURI {
		t.Errorf("URI = %q", r.URI)
	}
	if tpl := h.ReportTemplate(); tpl.Name == "" {
		t.Error("template has no name")
	}
}
