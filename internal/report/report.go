// Package report renders a tracker.Report as JSON, YAML, Markdown, plain
// or colored terminal text, and a standalone HTML page.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/HendryAvila/projtrack/internal/tracker"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
)

// Formats returns every supported format name.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatText), string(FormatHTML), string(FormatMarkdown), string(FormatYAML)}
}

// ParseFormat validates s. An empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	case FormatJSON, FormatYAML, FormatMarkdown, FormatText, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (valid: %s)", s, strings.Join(Formats(), ", "))
	}
}

type options struct {
	color bool
}

// Option configures rendering.
type Option func(*options)

// WithColor enables ANSI styling in the text format.
func WithColor(on bool) Option {
	return func(o *options) { o.color = on }
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *tracker.Report, f Format, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		return renderMarkdown(w, r)
	case FormatText:
		return renderText(w, r, o.color)
	case FormatHTML:
		return renderHTML(w, r)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// String renders r into a string.
func String(r *tracker.Report, f Format, opts ...Option) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, r, f, opts...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// seconds converts milliseconds to whole seconds, rounded.
func seconds(ms int64) int64 {
	return int64(math.Round(float64(ms) / 1000))
}

func stepDuration(d *int64) string {
	if d == nil {
		return "N/A"
	}
	return fmt.Sprintf("%ds", seconds(*d))
}

const displayTime = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	return t.Local().Format(displayTime)
}
