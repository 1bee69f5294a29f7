package tracker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/tracker"
)

// fakeClock advances by step on every call.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir(), DBFile: "test.db"})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestTracker(t *testing.T, s tracker.Store) *tracker.Tracker {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), step: 250 * time.Millisecond}
	return tracker.New(s,
		tracker.WithClock(clock.Now),
		tracker.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func startProject(t *testing.T, tr *tracker.Tracker) string {
	t.Helper()
	id, err := tr.StartProject(context.Background(), "demo", "a demo project", "", nil)
	if err != nil {
		t.Fatalf("StartProject: %v", err)
	}
	return id
}

func startStep(t *testing.T, tr *tracker.Tracker, sessionID, title string, typ store.StepType) string {
	t.Helper()
	id, err := tr.StartStep(context.Background(), sessionID, typ, title, "", nil, nil)
	if err != nil {
		t.Fatalf("StartStep(%q): %v", title, err)
	}
	return id
}

// ─── StartProject ───────────────────────────────────────────────────────────

func TestStartProject_Defaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)

	id := startProject(t, tr)
	if tr.CurrentSession() != id {
		t.Errorf("CurrentSession() = %q, want %q", tr.CurrentSession(), id)
	}

	got, err := s.GetSession(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("GetSession: %v, %v", got, err)
	}
	if got.Status != store.SessionActive || got.AIModel != tracker.DefaultAIModel {
		t.Errorf("session = %+v", got)
	}
	if got.TotalSteps != 0 || got.CurrentStep != 0 {
		t.Errorf("counters = %d/%d, want 0/0", got.CurrentStep, got.TotalSteps)
	}

	events, _ := s.GetTimeline(ctx, id)
	if len(events) != 1 || events[0].EventType != store.EventStepStart || events[0].Title != "Project started" {
		t.Errorf("timeline = %+v", events)
	}
	m, _ := s.GetMetrics(ctx, id)
	if m == nil {
		t.Error("metrics row not created")
	}
}

func TestStartProject_DefaultModelOption(t *testing.T) {
	s := newTestStore(t)
	tr := tracker.New(s, tracker.WithDefaultAIModel("gpt-x"))
	id := startProject(t, tr)
	got, _ := s.GetSession(context.Background(), id)
	if got.AIModel != "gpt-x" {
		t.Errorf("AIModel = %q, want gpt-x", got.AIModel)
	}
}

// ─── StartStep ──────────────────────────────────────────────────────────────

func TestStartStep_CountersAdvanceTogether(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)

	for n := 1; n <= 5; n++ {
		startStep(t, tr, id, "step", store.StepAnalysis)
		got, _ := s.GetSession(ctx, id)
		if got.CurrentStep != n || got.TotalSteps != n {
			t.Fatalf("after %d steps: current=%d total=%d", n, got.CurrentStep, got.TotalSteps)
		}
	}

	steps, _ := s.GetSteps(ctx, id)
	for i, st := range steps {
		if st.StepNumber != i+1 {
			t.Errorf("steps[%d].StepNumber = %d", i, st.StepNumber)
		}
		if st.Status != store.StepInProgress {
			t.Errorf("steps[%d].Status = %q", i, st.Status)
		}
	}
}

func TestStartStep_TimelineLinksStep(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)
	stepID := startStep(t, tr, id, "read files", store.StepFileRead)

	events, _ := s.GetTimeline(ctx, id)
	last := events[len(events)-1]
	if last.Title != "Step started: read files" {
		t.Errorf("title = %q", last.Title)
	}
	if last.RelatedStepID == nil || *last.RelatedStepID != stepID {
		t.Errorf("related = %v, want %s", last.RelatedStepID, stepID)
	}
}

func TestStartStep_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)

	_, err := tr.StartStep(ctx, "missing", store.StepAnalysis, "x", "", nil, nil)
	if !errors.Is(err, tracker.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalSteps != 0 || stats.TotalEvents != 0 || stats.TotalSessions != 0 {
		t.Errorf("stats = %+v, want nothing written", stats)
	}
}

func TestStartStep_ConcurrentUniqueNumbers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)

	const n = 12
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tr.StartStep(ctx, id, store.StepCustom, "parallel", "", nil, nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("StartStep: %v", err)
	}

	steps, _ := s.GetSteps(ctx, id)
	if len(steps) != n {
		t.Fatalf("len(steps) = %d, want %d", len(steps), n)
	}
	seen := map[int]bool{}
	for _, st := range steps {
		if seen[st.StepNumber] {
			t.Errorf("duplicate step number %d", st.StepNumber)
		}
		seen[st.StepNumber] = true
	}
	got, _ := s.GetSession(ctx, id)
	if got.CurrentStep != n || got.TotalSteps != n {
		t.Errorf("counters = %d/%d, want %d", got.CurrentStep, got.TotalSteps, n)
	}
}

// ─── CompleteStep ───────────────────────────────────────────────────────────

func TestCompleteStep_Duration(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)
	stepID := startStep(t, tr, id, "build", store.StepCommandExecution)

	if err := tr.CompleteStep(ctx, stepID, "", store.Metadata{"ok": true}, ""); err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}

	got, _ := s.GetStep(ctx, stepID)
	if got.Status != store.StepCompleted {
		t.Errorf("Status = %q", got.Status)
	}
	if got.Duration == nil || *got.Duration <= 0 {
		t.Errorf("Duration = %v, want > 0", got.Duration)
	}
	if got.EndTime == nil {
		t.Error("EndTime not set")
	}
	if got.Output["ok"] != true {
		t.Errorf("Output = %v", got.Output)
	}

	events, _ := s.GetTimeline(ctx, id)
	last := events[len(events)-1]
	if last.EventType != store.EventStepComplete || last.Title != "Step completed: build" {
		t.Errorf("last event = %+v", last)
	}
}

func TestCompleteStep_NoRecordedStartIsZero(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := startProject(t, newTestTracker(t, s))
	stepID := startStep(t, newTestTracker(t, s), id, "x", store.StepTesting)

	restarted := newTestTracker(t, s)
	if err := restarted.CompleteStep(ctx, stepID, store.StepCompleted, nil, ""); err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}
	got, _ := s.GetStep(ctx, stepID)
	if got.Duration == nil || *got.Duration != 0 {
		t.Errorf("Duration = %v, want 0", got.Duration)
	}
}

func TestCompleteStep_FailureEvent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)
	stepID := startStep(t, tr, id, "deploy", store.StepDeployment)

	if err := tr.CompleteStep(ctx, stepID, store.StepFailed, nil, "permission denied"); err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}
	got, _ := s.GetStep(ctx, stepID)
	if got.ErrorMessage == nil || *got.ErrorMessage != "permission denied" {
		t.Errorf("ErrorMessage = %v", got.ErrorMessage)
	}

	events, _ := s.GetTimeline(ctx, id)
	last := events[len(events)-1]
	if last.EventType != store.EventError || last.Title != "Step failed: deploy" {
		t.Errorf("last event = %+v", last)
	}
	if last.Description == nil || *last.Description != "permission denied" {
		t.Errorf("Description = %v", last.Description)
	}
}

func TestCompleteStep_RejectsNonTerminalStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)
	stepID := startStep(t, tr, id, "x", store.StepTesting)

	err := tr.CompleteStep(ctx, stepID, store.StepInProgress, nil, "")
	if !errors.Is(err, tracker.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestCompleteStep_TerminalIsFinal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)
	stepID := startStep(t, tr, id, "x", store.StepTesting)

	if err := tr.CompleteStep(ctx, stepID, store.StepCompleted, nil, ""); err != nil {
		t.Fatalf("first CompleteStep: %v", err)
	}
	before, _ := s.GetStep(ctx, stepID)

	err := tr.CompleteStep(ctx, stepID, store.StepFailed, nil, "late")
	if !errors.Is(err, tracker.ErrStepFinished) {
		t.Fatalf("err = %v, want ErrStepFinished", err)
	}
	after, _ := s.GetStep(ctx, stepID)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("step changed after terminal status:\n%+v\n%+v", before, after)
	}
}

func TestCompleteStep_UnknownStepEmitsNoEvent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)

	if err := tr.CompleteStep(ctx, "ghost", store.StepCompleted, nil, ""); err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}
	events, _ := s.GetTimeline(ctx, id)
	if len(events) != 1 {
		t.Errorf("len(timeline) = %d, want only the start event", len(events))
	}
}

// ─── Logs / Metrics / Insights ──────────────────────────────────────────────

func TestAddLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)
	stepID := startStep(t, tr, id, "x", store.StepDebugging)

	if _, err := tr.AddLog(ctx, stepID, "first", "", nil); err != nil {
		t.Fatalf("AddLog: %v", err)
	}
	if _, err := tr.AddLog(ctx, stepID, "second", store.SeverityWarning, nil); err != nil {
		t.Fatalf("AddLog: %v", err)
	}
	logs, err := tr.GetLogs(ctx, stepID)
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if len(logs) != 2 || logs[0].Content != "first" || logs[0].Severity != store.SeverityInfo {
		t.Errorf("logs = %+v", logs)
	}

	if _, err := tr.AddLog(ctx, "ghost", "x", "", nil); !errors.Is(err, tracker.ErrStepNotFound) {
		t.Errorf("err = %v, want ErrStepNotFound", err)
	}
}

func TestUpdateMetrics(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)

	files, high := 4, store.ComplexityHigh
	if err := tr.UpdateMetrics(ctx, id, store.MetricsPatch{TotalFiles: &files, Complexity: &high}); err != nil {
		t.Fatalf("UpdateMetrics: %v", err)
	}
	m, _ := s.GetMetrics(ctx, id)
	if m.TotalFiles != 4 || m.Complexity != store.ComplexityHigh || m.LinesOfCode != 0 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestAddInsight_DefaultConfidence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)

	if _, err := tr.AddInsight(ctx, id, tracker.InsightInput{Type: store.InsightPattern, Title: "a"}); err != nil {
		t.Fatalf("AddInsight: %v", err)
	}
	low := 10
	if _, err := tr.AddInsight(ctx, id, tracker.InsightInput{Type: store.InsightWarning, Title: "b", Confidence: &low}); err != nil {
		t.Fatalf("AddInsight: %v", err)
	}

	all, _ := tr.GetInsights(ctx, id, "")
	if len(all) != 2 {
		t.Fatalf("len = %d", len(all))
	}
	warnings, _ := tr.GetInsights(ctx, id, store.InsightWarning)
	if len(warnings) != 1 || warnings[0].Confidence != 10 {
		t.Errorf("warnings = %+v", warnings)
	}
	patterns, _ := tr.GetInsights(ctx, id, store.InsightPattern)
	if len(patterns) != 1 || patterns[0].Confidence != tracker.DefaultConfidence {
		t.Errorf("patterns = %+v", patterns)
	}
}

// ─── CompleteProject ────────────────────────────────────────────────────────

func TestCompleteProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)

	if err := tr.CompleteProject(ctx, id, ""); err != nil {
		t.Fatalf("CompleteProject: %v", err)
	}
	got, _ := s.GetSession(ctx, id)
	if got.Status != store.SessionCompleted || got.EndTime == nil {
		t.Errorf("session = %+v", got)
	}

	milestones, _ := tr.GetTimeline(ctx, id, store.EventMilestone)
	if len(milestones) != 1 || milestones[0].Title != "Project completed" {
		t.Errorf("milestones = %+v", milestones)
	}

	if err := tr.CompleteProject(ctx, "missing", ""); !errors.Is(err, tracker.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
	if err := tr.CompleteProject(ctx, id, store.SessionActive); !errors.Is(err, tracker.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

// ─── Summary ────────────────────────────────────────────────────────────────

func TestSummarize(t *testing.T) {
	dur := func(ms int64) *int64 { return &ms }
	tests := []struct {
		name       string
		steps      []store.Step
		completion int
		efficiency int
		status     tracker.OverallStatus
	}{
		{
			name:       "no steps",
			completion: 0,
			efficiency: 100,
			status:     tracker.StatusFailure,
		},
		{
			name: "two completed one failed one pending",
			steps: []store.Step{
				{Title: "a", Status: store.StepCompleted, StepType: store.StepTesting, Duration: dur(100)},
				{Title: "b", Status: store.StepCompleted, StepType: store.StepAnalysis, Duration: dur(50)},
				{Title: "c", Status: store.StepFailed, StepType: store.StepDeployment},
				{Title: "d", Status: store.StepPending},
			},
			completion: 50,
			efficiency: 88,
			status:     tracker.StatusPartialSuccess,
		},
		{
			name: "all completed",
			steps: []store.Step{
				{Title: "a", Status: store.StepCompleted},
				{Title: "b", Status: store.StepCompleted},
			},
			completion: 100,
			efficiency: 100,
			status:     tracker.StatusSuccess,
		},
		{
			name: "all failed",
			steps: []store.Step{
				{Title: "a", Status: store.StepFailed},
			},
			completion: 0,
			efficiency: 50,
			status:     tracker.StatusFailure,
		},
		{
			name: "high completion with a failure",
			steps: []store.Step{
				{Status: store.StepCompleted}, {Status: store.StepCompleted}, {Status: store.StepCompleted},
				{Status: store.StepCompleted}, {Status: store.StepCompleted}, {Status: store.StepCompleted},
				{Status: store.StepCompleted}, {Status: store.StepCompleted}, {Status: store.StepCompleted},
				{Status: store.StepCompleted}, {Status: store.StepFailed},
			},
			completion: 91,
			efficiency: 95,
			status:     tracker.StatusPartialSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tracker.Summarize("s1", tt.steps)
			if got.CompletionPercentage != tt.completion {
				t.Errorf("CompletionPercentage = %d, want %d", got.CompletionPercentage, tt.completion)
			}
			if got.EfficiencyScore != tt.efficiency {
				t.Errorf("EfficiencyScore = %d, want %d", got.EfficiencyScore, tt.efficiency)
			}
			if got.OverallStatus != tt.status {
				t.Errorf("OverallStatus = %q, want %q", got.OverallStatus, tt.status)
			}
		})
	}
}

func TestSummarize_Lists(t *testing.T) {
	dur := int64(300)
	steps := []store.Step{
		{Title: "tests pass", Status: store.StepCompleted, StepType: store.StepTesting, Duration: &dur},
		{Title: "shipped", Status: store.StepCompleted, StepType: store.StepDeployment, Duration: &dur},
		{Title: "refactor", Status: store.StepCompleted, StepType: store.StepOptimization},
		{Title: "lint", Status: store.StepFailed},
		{Title: "p1", Status: store.StepPending},
		{Title: "p2", Status: store.StepPending},
		{Title: "p3", Status: store.StepPending},
		{Title: "p4", Status: store.StepPending},
	}
	got := tracker.Summarize("s1", steps)

	if want := []string{"tests pass", "shipped"}; !reflect.DeepEqual(got.KeyAchievements, want) {
		t.Errorf("KeyAchievements = %v, want %v", got.KeyAchievements, want)
	}
	if want := []string{"lint"}; !reflect.DeepEqual(got.MainChallenges, want) {
		t.Errorf("MainChallenges = %v, want %v", got.MainChallenges, want)
	}
	if want := []string{"p1", "p2", "p3"}; !reflect.DeepEqual(got.NextSteps, want) {
		t.Errorf("NextSteps = %v, want %v", got.NextSteps, want)
	}
	if got.TotalTimeSpent != 600 {
		t.Errorf("TotalTimeSpent = %d, want 600", got.TotalTimeSpent)
	}
}

// ─── GenerateReport ─────────────────────────────────────────────────────────

func TestGenerateReport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)
	a := startStep(t, tr, id, "unit tests", store.StepTesting)
	b := startStep(t, tr, id, "deploy", store.StepDeployment)
	_ = tr.CompleteStep(ctx, a, store.StepCompleted, nil, "")
	_ = tr.CompleteStep(ctx, b, store.StepFailed, nil, "boom")
	_ = tr.CompleteProject(ctx, id, store.SessionFailed)

	r, err := tr.GenerateReport(ctx, id)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if r.Session.ID != id || len(r.Steps) != 2 {
		t.Errorf("report session/steps = %s/%d", r.Session.ID, len(r.Steps))
	}
	if r.Summary.CompletionPercentage != 50 || r.Summary.OverallStatus != tracker.StatusPartialSuccess {
		t.Errorf("summary = %+v", r.Summary)
	}
	if !reflect.DeepEqual(r.Summary.MainChallenges, []string{"deploy"}) {
		t.Errorf("MainChallenges = %v", r.Summary.MainChallenges)
	}
	if r.Insights == nil {
		t.Error("Insights is nil, want empty slice")
	}
	// start, 2x step start, 2x step finish, milestone
	if len(r.Timeline) != 6 {
		t.Errorf("len(Timeline) = %d, want 6", len(r.Timeline))
	}
}

func TestGenerateReport_SessionNotFound(t *testing.T) {
	tr := newTestTracker(t, newTestStore(t))
	if _, err := tr.GenerateReport(context.Background(), "missing"); !errors.Is(err, tracker.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

// noMetricsStore hides the metrics row.
type noMetricsStore struct{ *store.Store }

func (noMetricsStore) GetMetrics(context.Context, string) (*store.Metrics, error) { return nil, nil }

func TestGenerateReport_ZeroMetricsWhenAbsent(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t, noMetricsStore{newTestStore(t)})
	id := startProject(t, tr)

	r, err := tr.GenerateReport(ctx, id)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if want := store.ZeroMetrics(id); !reflect.DeepEqual(r.Metrics, want) {
		t.Errorf("Metrics = %+v, want %+v", r.Metrics, want)
	}
}

// ─── Queries ────────────────────────────────────────────────────────────────

func TestListSteps_Filter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	id := startProject(t, tr)
	a := startStep(t, tr, id, "a", store.StepAnalysis)
	startStep(t, tr, id, "b", store.StepAnalysis)
	_ = tr.CompleteStep(ctx, a, "", nil, "")

	all, _ := tr.ListSteps(ctx, id, "")
	done, _ := tr.ListSteps(ctx, id, store.StepCompleted)
	if len(all) != 2 || len(done) != 1 || done[0].Title != "a" {
		t.Errorf("all=%d done=%+v", len(all), done)
	}
}

func TestListSessions_Limits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := newTestTracker(t, s)
	for i := 0; i < 12; i++ {
		startProject(t, tr)
	}

	got, err := tr.ListSessions(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(got) != tracker.DefaultListLimit {
		t.Errorf("len = %d, want %d", len(got), tracker.DefaultListLimit)
	}
	got, _ = tr.ListSessions(ctx, "", 500)
	if len(got) != 12 {
		t.Errorf("len = %d, want 12", len(got))
	}
	got, _ = tr.ListSessions(ctx, store.SessionCompleted, 5)
	if len(got) != 0 || got == nil {
		t.Errorf("completed = %v, want empty non-nil", got)
	}
}

func TestGetStatus_NotFound(t *testing.T) {
	tr := newTestTracker(t, newTestStore(t))
	if _, err := tr.GetStatus(context.Background(), "missing"); !errors.Is(err, tracker.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
