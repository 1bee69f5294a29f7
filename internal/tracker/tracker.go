// Package tracker sequences the project session lifecycle on top of the
// store: starting projects and steps, completing them with computed
// durations, appending timeline events as side effects, and deriving the
// summary report.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/telemetry"
)

// DefaultAIModel is recorded when StartProject is called without a model.
const DefaultAIModel = "Claude-3.5"

// DefaultConfidence is the insight confidence used when none is given.
const DefaultConfidence = 85

var (
	// ErrSessionNotFound is returned by operations that require an
	// existing session.
	ErrSessionNotFound = errors.New("project session not found")

	// ErrStepNotFound is returned by operations that require an existing step.
	ErrStepNotFound = errors.New("step not found")

	// ErrStepFinished is returned when completing a step that already
	// reached a terminal status.
	ErrStepFinished = errors.New("step already finished")

	// ErrInvalidStatus is returned for a completion status that is not
	// terminal.
	ErrInvalidStatus = errors.New("invalid status")
)

// Store is the persistence the tracker depends on. *store.Store satisfies it.
type Store interface {
	CreateSession(ctx context.Context, ns store.NewSession) (string, error)
	GetSession(ctx context.Context, id string) (*store.Session, error)
	UpdateSession(ctx context.Context, id string, p store.SessionPatch) error
	ListSessions(ctx context.Context, opts store.ListSessionsOptions) ([]store.Session, error)

	CreateStep(ctx context.Context, ns store.NewStep) (string, error)
	UpdateStep(ctx context.Context, id string, p store.StepPatch) error
	GetStep(ctx context.Context, id string) (*store.Step, error)
	GetSteps(ctx context.Context, sessionID string) ([]store.Step, error)
	AddStepDetail(ctx context.Context, nd store.NewStepDetail) (string, error)
	GetStepDetails(ctx context.Context, stepID string) ([]store.StepDetail, error)

	UpdateMetrics(ctx context.Context, sessionID string, p store.MetricsPatch) error
	GetMetrics(ctx context.Context, sessionID string) (*store.Metrics, error)

	AddInsight(ctx context.Context, ni store.NewInsight) (string, error)
	GetInsights(ctx context.Context, sessionID string) ([]store.Insight, error)

	AddTimelineEvent(ctx context.Context, ne store.NewTimelineEvent) (string, error)
	GetTimeline(ctx context.Context, sessionID string) ([]store.TimelineEvent, error)

	Stats(ctx context.Context) (*store.Stats, error)
}

// Tracker is the stateful orchestrator over a Store.
//
// It keeps two pieces of process-local state: the id of the session most
// recently started or stepped, and the start instant of every step still
// in progress. Neither survives a restart; a step completed without a
// recorded start gets duration 0.
type Tracker struct {
	store    Store
	log      *slog.Logger
	recorder telemetry.Recorder
	now      func() time.Time
	aiModel  string

	mu             sync.Mutex
	currentSession string
	stepStarts     map[string]time.Time

	// sessionLocks serializes StartStep per session so concurrent callers
	// in this process never compute the same step number.
	sessionLocks sync.Map
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithRecorder sets the telemetry recorder.
func WithRecorder(r telemetry.Recorder) Option {
	return func(t *Tracker) { t.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithDefaultAIModel overrides DefaultAIModel.
func WithDefaultAIModel(model string) Option {
	return func(t *Tracker) {
		if model != "" {
			t.aiModel = model
		}
	}
}

// New creates a Tracker over st.
func New(st Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:      st,
		log:        slog.Default(),
		recorder:   telemetry.Noop{},
		now:        time.Now,
		aiModel:    DefaultAIModel,
		stepStarts: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CurrentSession returns the id of the session most recently started or
// stepped in this process, or "" if none.
func (t *Tracker) CurrentSession() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentSession
}

func (t *Tracker) setCurrent(sessionID string) {
	t.mu.Lock()
	t.currentSession = sessionID
	t.mu.Unlock()
}

func (t *Tracker) recordStart(stepID string, at time.Time) {
	t.mu.Lock()
	t.stepStarts[stepID] = at
	t.mu.Unlock()
}

// takeStart removes and returns the recorded start of stepID.
func (t *Tracker) takeStart(stepID string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	at, ok := t.stepStarts[stepID]
	delete(t.stepStarts, stepID)
	return at, ok
}

func (t *Tracker) lockSession(sessionID string) func() {
	v, _ := t.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (t *Tracker) addEvent(ctx context.Context, ev store.NewTimelineEvent) error {
	_, err := t.store.AddTimelineEvent(ctx, ev)
	return err
}

func ptr[T any](v T) *T { return &v }
