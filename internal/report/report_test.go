package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/tracker"
	"gopkg.in/yaml.v3"
)

func sampleReport() *tracker.Report {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	dur := int64(4200)
	desc := "all green"
	steps := []store.Step{
		{ID: "s1", StepNumber: 1, StepType: store.StepTesting, Title: "run tests", Status: store.StepCompleted, StartTime: start, Duration: &dur},
		{ID: "s2", StepNumber: 2, StepType: store.StepDeployment, Title: "deploy <prod>", Status: store.StepFailed, StartTime: start},
	}
	return &tracker.Report{
		Session: store.Session{
			ID: "sess", ProjectName: "demo", Description: "a demo",
			StartTime: start, Status: store.SessionActive, AIModel: "Claude-3.5",
			Metadata: store.Metadata{},
		},
		Steps:   steps,
		Metrics: store.Metrics{SessionID: "sess", TotalFiles: 7, Complexity: store.ComplexityMedium},
		Insights: []store.Insight{
			{ID: "i1", Title: "flaky suite", InsightType: store.InsightWarning, Confidence: 70},
		},
		Timeline: []store.TimelineEvent{
			{ID: "e1", Timestamp: start, EventType: store.EventStepComplete, Title: "Step completed: run tests", Description: &desc},
		},
		Summary: tracker.Summarize("sess", steps),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"HTML", FormatHTML, false},
		{"md", FormatMarkdown, false},
		{"yml", FormatYAML, false},
		{" text ", FormatText, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender_JSON(t *testing.T) {
	out, err := String(sampleReport(), FormatJSON)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	summary, ok := decoded["summary"].(map[string]any)
	if !ok {
		t.Fatalf("summary missing: %s", out)
	}
	if summary["completionPercentage"] != float64(50) {
		t.Errorf("completionPercentage = %v", summary["completionPercentage"])
	}
}

func TestRender_YAML(t *testing.T) {
	out, err := String(sampleReport(), FormatYAML)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if !strings.Contains(out, "overall_status: partial_success") {
		t.Errorf("yaml missing summary:\n%s", out)
	}
}

func TestRender_Markdown(t *testing.T) {
	out, err := String(sampleReport(), FormatMarkdown)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	for _, want := range []string{
		"# Project Report: demo",
		"| 50% | 75% | 4s | partial_success |",
		"### Main challenges",
		"| 1 | run tests | testing | completed | 4s |",
		"| 2 | deploy <prod> | deployment | failed | N/A |",
		"**flaky suite**",
		": all green",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestRender_TextPlain(t *testing.T) {
	out, err := String(sampleReport(), FormatText)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain text contains ANSI escapes")
	}
	for _, want := range []string{"Project: demo", "• Completion: 50%", "• Total files: 7", "• flaky suite (70%)", "• deploy <prod>"} {
		if !strings.Contains(out, want) {
			t.Errorf("text missing %q:\n%s", want, out)
		}
	}
}

func TestRender_HTMLEscapes(t *testing.T) {
	out, err := String(sampleReport(), FormatHTML)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if strings.Contains(out, "deploy <prod>") {
		t.Error("step title not escaped")
	}
	for _, want := range []string{"<!DOCTYPE html>", "deploy &lt;prod&gt;", `class="step failed"`, "50%", "all green"} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := String(sampleReport(), Format("pdf")); err == nil {
		t.Error("expected error for unknown format")
	}
}
