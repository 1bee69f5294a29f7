package tracker

import (
	"context"
	"fmt"

	"github.com/HendryAvila/projtrack/internal/store"
)

// Session list bounds.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// GetStatus returns a session. A missing session is ErrSessionNotFound.
func (t *Tracker) GetStatus(ctx context.Context, sessionID string) (*store.Session, error) {
	session, err := t.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("get status: %w: %s", ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// ListSteps returns a session's steps in step-number order, keeping only
// those with the given status when it is non-empty.
func (t *Tracker) ListSteps(ctx context.Context, sessionID string, status store.StepStatus) ([]store.Step, error) {
	steps, err := t.store.GetSteps(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return filter(steps, func(s store.Step) bool {
		return status == "" || s.Status == status
	}), nil
}

// GetTimeline returns a session's events in chronological order, keeping
// only the given event type when it is non-empty.
func (t *Tracker) GetTimeline(ctx context.Context, sessionID string, eventType store.EventType) ([]store.TimelineEvent, error) {
	events, err := t.store.GetTimeline(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return filter(events, func(e store.TimelineEvent) bool {
		return eventType == "" || e.EventType == eventType
	}), nil
}

// GetInsights returns a session's insights newest first, keeping only the
// given insight type when it is non-empty.
func (t *Tracker) GetInsights(ctx context.Context, sessionID string, insightType store.InsightType) ([]store.Insight, error) {
	insights, err := t.store.GetInsights(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return filter(insights, func(i store.Insight) bool {
		return insightType == "" || i.InsightType == insightType
	}), nil
}

// GetLogs returns the log lines attached to a step, oldest first.
func (t *Tracker) GetLogs(ctx context.Context, stepID string) ([]store.StepDetail, error) {
	details, err := t.store.GetStepDetails(ctx, stepID)
	if err != nil {
		return nil, err
	}
	return nonNil(details), nil
}

// ListSessions returns sessions newest first. A limit of 0 means
// DefaultListLimit; larger limits are capped at MaxListLimit.
func (t *Tracker) ListSessions(ctx context.Context, status store.SessionStatus, limit int) ([]store.Session, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	sessions, err := t.store.ListSessions(ctx, store.ListSessionsOptions{Status: status, Limit: limit})
	if err != nil {
		return nil, err
	}
	return nonNil(sessions), nil
}

// Stats returns aggregate counts over the whole database.
func (t *Tracker) Stats(ctx context.Context) (*store.Stats, error) {
	return t.store.Stats(ctx)
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
