package tracker

import (
	"context"
	"fmt"
	"math"

	"github.com/HendryAvila/projtrack/internal/store"
)

// OverallStatus grades a session in its summary.
type OverallStatus string

const (
	StatusSuccess        OverallStatus = "success"
	StatusPartialSuccess OverallStatus = "partial_success"
	StatusFailure        OverallStatus = "failure"
)

// maxNextSteps caps Summary.NextSteps.
const maxNextSteps = 3

// achievementTypes are the step types whose completion counts as a key
// achievement. "milestone" is not a StepType today; it matches only if
// one is added later.
var achievementTypes = map[store.StepType]bool{
	"milestone":          true,
	store.StepDeployment: true,
	store.StepTesting:    true,
}

// Summary is the derived, non-persisted grade of a session.
type Summary struct {
	SessionID            string        `json:"sessionId" yaml:"session_id"`
	OverallStatus        OverallStatus `json:"overallStatus" yaml:"overall_status"`
	CompletionPercentage int           `json:"completionPercentage" yaml:"completion_percentage"`
	KeyAchievements      []string      `json:"keyAchievements" yaml:"key_achievements"`
	MainChallenges       []string      `json:"mainChallenges" yaml:"main_challenges"`
	NextSteps            []string      `json:"nextSteps" yaml:"next_steps"`
	TotalTimeSpent       int64         `json:"totalTimeSpent" yaml:"total_time_spent"` // milliseconds
	EfficiencyScore      int           `json:"efficiencyScore" yaml:"efficiency_score"`
}

// Report aggregates everything stored about one session plus its Summary.
type Report struct {
	Session  store.Session         `json:"session" yaml:"session"`
	Steps    []store.Step          `json:"steps" yaml:"steps"`
	Metrics  store.Metrics         `json:"metrics" yaml:"metrics"`
	Insights []store.Insight       `json:"insights" yaml:"insights"`
	Timeline []store.TimelineEvent `json:"timeline" yaml:"timeline"`
	Summary  Summary               `json:"summary" yaml:"summary"`
}

// Summarize grades a session from its steps, which must be in step-number
// order.
func Summarize(sessionID string, steps []store.Step) Summary {
	s := Summary{
		SessionID:       sessionID,
		KeyAchievements: []string{},
		MainChallenges:  []string{},
		NextSteps:       []string{},
	}

	var completed, failed int
	for _, step := range steps {
		if step.Duration != nil {
			s.TotalTimeSpent += *step.Duration
		}
		switch step.Status {
		case store.StepCompleted:
			completed++
			if achievementTypes[step.StepType] {
				s.KeyAchievements = append(s.KeyAchievements, step.Title)
			}
		case store.StepFailed:
			failed++
			s.MainChallenges = append(s.MainChallenges, step.Title)
		case store.StepPending:
			if len(s.NextSteps) < maxNextSteps {
				s.NextSteps = append(s.NextSteps, step.Title)
			}
		}
	}

	if n := len(steps); n > 0 {
		s.CompletionPercentage = int(math.Round(100 * float64(completed) / float64(n)))
	}

	penalty := float64(failed) / float64(max(1, len(steps))) * 50
	s.EfficiencyScore = int(math.Round(min(max(100-penalty, 0), 100)))

	switch {
	case s.CompletionPercentage < 50:
		s.OverallStatus = StatusFailure
	case s.CompletionPercentage < 90 || failed > 0:
		s.OverallStatus = StatusPartialSuccess
	default:
		s.OverallStatus = StatusSuccess
	}
	return s
}

// GenerateReport gathers a session's stored data and grades it. A missing
// metrics row is replaced by store.ZeroMetrics.
func (t *Tracker) GenerateReport(ctx context.Context, sessionID string) (*Report, error) {
	session, err := t.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("generate report: %w: %s", ErrSessionNotFound, sessionID)
	}

	steps, err := t.store.GetSteps(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	metrics, err := t.store.GetMetrics(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		zero := store.ZeroMetrics(sessionID)
		metrics = &zero
	}
	insights, err := t.store.GetInsights(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	timeline, err := t.store.GetTimeline(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &Report{
		Session:  *session,
		Steps:    nonNil(steps),
		Metrics:  *metrics,
		Insights: nonNil(insights),
		Timeline: nonNil(timeline),
		Summary:  Summarize(sessionID, steps),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
