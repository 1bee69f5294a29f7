package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/HendryAvila/projtrack/internal/tracker"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"seconds":  seconds,
	"duration": stepDuration,
	"time":     formatTime,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}).Parse(htmlSource))

func renderHTML(w io.Writer, r *tracker.Report) error {
	if err := htmlTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

const htmlSource = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Project Report - {{.Session.ProjectName}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
.container { max-width: 1200px; margin: 0 auto; background: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
.metric-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 15px; margin: 20px 0; }
.metric-card { background: #f8f9fa; padding: 15px; border-radius: 6px; border-left: 4px solid #007bff; }
.metric-card p { font-size: 24px; font-weight: bold; }
.step { background: #fff; border: 1px solid #dee2e6; border-radius: 6px; padding: 15px; margin: 10px 0; }
.step.completed { border-left: 4px solid #28a745; }
.step.failed { border-left: 4px solid #dc3545; }
.step.in_progress { border-left: 4px solid #ffc107; }
.insight { background: #e7f3ff; border: 1px solid #b8daff; border-radius: 6px; padding: 12px; margin: 8px 0; }
.timeline-event { display: flex; align-items: center; padding: 8px 0; border-bottom: 1px solid #eee; }
.timeline-icon { width: 20px; height: 20px; border-radius: 50%; margin-right: 12px; background-color: #6c757d; }
.timeline-icon.step_start { background-color: #28a745; }
.timeline-icon.step_complete { background-color: #007bff; }
.timeline-icon.error { background-color: #dc3545; }
.timeline-icon.milestone { background-color: #ffc107; }
small, .muted { font-size: 12px; color: #6c757d; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Project Report</h1>
    <h2>{{.Session.ProjectName}}</h2>
    <p>{{.Session.Description}}</p>
    <p><strong>AI model:</strong> {{.Session.AIModel}} | <strong>Status:</strong> {{.Session.Status}} | <strong>Outcome:</strong> {{.Summary.OverallStatus}}</p>
  </div>

  <div class="metric-grid">
    <div class="metric-card"><h3>Completion</h3><p>{{.Summary.CompletionPercentage}}%</p></div>
    <div class="metric-card"><h3>Efficiency</h3><p>{{.Summary.EfficiencyScore}}%</p></div>
    <div class="metric-card"><h3>Total time</h3><p>{{seconds .Summary.TotalTimeSpent}}s</p></div>
    <div class="metric-card"><h3>Files</h3><p>{{.Metrics.TotalFiles}}</p></div>
  </div>

  <h3>Steps</h3>
  {{- range .Steps}}
  <div class="step {{.Status}}">
    <h4>{{.Title}} <span class="muted">({{.StepType}})</span></h4>
    <p>{{.Description}}</p>
    <small>Status: {{.Status}} | Duration: {{duration .Duration}}</small>
  </div>
  {{- else}}
  <p class="muted">No steps recorded.</p>
  {{- end}}

  {{- if .Insights}}
  <h3>Insights</h3>
  {{- range .Insights}}
  <div class="insight">
    <h4>{{.Title}} <span class="muted">({{.Confidence}}% confidence)</span></h4>
    <p>{{.Description}}</p>
    <small>Type: {{.InsightType}}</small>
  </div>
  {{- end}}
  {{- end}}

  <h3>Timeline</h3>
  <div style="max-height: 300px; overflow-y: auto;">
  {{- range .Timeline}}
    <div class="timeline-event">
      <div class="timeline-icon {{.EventType}}"></div>
      <div>
        <strong>{{.Title}}</strong>
        <div class="muted">{{time .Timestamp}}</div>
        {{- with deref .Description}}
        <div>{{.}}</div>
        {{- end}}
      </div>
    </div>
  {{- end}}
  </div>
</div>
</body>
</html>
`
