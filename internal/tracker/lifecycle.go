package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/HendryAvila/projtrack/internal/store"
)

// StartProject opens a new active session and records a launch event on
// its timeline. An empty aiModel falls back to the tracker default.
func (t *Tracker) StartProject(ctx context.Context, name, description, aiModel string, metadata store.Metadata) (string, error) {
	if aiModel == "" {
		aiModel = t.aiModel
	}
	if metadata == nil {
		metadata = store.Metadata{}
	}

	now := t.now()
	sessionID, err := t.store.CreateSession(ctx, store.NewSession{
		ProjectName: name,
		Description: description,
		StartTime:   now,
		Status:      store.SessionActive,
		AIModel:     aiModel,
		Metadata:    metadata,
	})
	if err != nil {
		return "", err
	}
	t.setCurrent(sessionID)

	if err := t.addEvent(ctx, store.NewTimelineEvent{
		SessionID:   sessionID,
		Timestamp:   now,
		EventType:   store.EventStepStart,
		Title:       "Project started",
		Description: fmt.Sprintf("%s started with %s", name, aiModel),
	}); err != nil {
		return "", err
	}

	t.recorder.SessionStarted(ctx, aiModel)
	t.log.Info("project started", "session_id", sessionID, "project", name, "ai_model", aiModel)
	return sessionID, nil
}

// StartStep creates the next step of a session in the in_progress state.
// The step number is the session's current step plus one; both session
// counters advance to it.
func (t *Tracker) StartStep(ctx context.Context, sessionID string, stepType store.StepType, title, description string, input, metadata store.Metadata) (string, error) {
	unlock := t.lockSession(sessionID)
	defer unlock()

	session, err := t.store.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", fmt.Errorf("start step: %w: %s", ErrSessionNotFound, sessionID)
	}
	if metadata == nil {
		metadata = store.Metadata{}
	}

	stepNumber := session.CurrentStep + 1
	now := t.now()
	stepID, err := t.store.CreateStep(ctx, store.NewStep{
		SessionID:   sessionID,
		StepNumber:  stepNumber,
		StepType:    stepType,
		Title:       title,
		Description: description,
		StartTime:   now,
		Status:      store.StepInProgress,
		Input:       input,
		Metadata:    metadata,
	})
	if err != nil {
		return "", err
	}
	t.recordStart(stepID, now)
	t.setCurrent(sessionID)

	if err := t.store.UpdateSession(ctx, sessionID, store.SessionPatch{
		CurrentStep: ptr(stepNumber),
		TotalSteps:  ptr(stepNumber),
	}); err != nil {
		return "", err
	}

	if err := t.addEvent(ctx, store.NewTimelineEvent{
		SessionID:     sessionID,
		Timestamp:     t.now(),
		EventType:     store.EventStepStart,
		Title:         "Step started: " + title,
		Description:   fmt.Sprintf("%s step started", stepType),
		RelatedStepID: stepID,
	}); err != nil {
		return "", err
	}

	t.recorder.StepStarted(ctx, string(stepType))
	t.log.Info("step started", "session_id", sessionID, "step_id", stepID, "step_number", stepNumber, "type", stepType)
	return stepID, nil
}

// CompleteStep moves a step to a terminal status and fixes its end time
// and duration. An empty status means completed. The duration is measured
// from the start recorded by StartStep in this process, or 0 if none was
// recorded. A step that cannot be found is patched blindly and produces
// no timeline event.
func (t *Tracker) CompleteStep(ctx context.Context, stepID string, status store.StepStatus, output store.Metadata, errorMessage string) error {
	if status == "" {
		status = store.StepCompleted
	}
	if !status.IsTerminal() {
		return fmt.Errorf("complete step: %w: %q", ErrInvalidStatus, status)
	}

	step, err := t.store.GetStep(ctx, stepID)
	if err != nil {
		return err
	}
	if step != nil && step.Status.IsTerminal() {
		return fmt.Errorf("complete step: %w: %s is %s", ErrStepFinished, stepID, step.Status)
	}

	endTime := t.now()
	var duration int64
	if start, ok := t.takeStart(stepID); ok {
		duration = endTime.Sub(start).Milliseconds()
		if duration < 0 {
			duration = 0
		}
	}

	p := store.StepPatch{
		EndTime:  &endTime,
		Status:   &status,
		Output:   output,
		Duration: &duration,
	}
	if errorMessage != "" {
		p.ErrorMessage = &errorMessage
	}
	if err := t.store.UpdateStep(ctx, stepID, p); err != nil {
		return err
	}

	t.recorder.StepCompleted(ctx, string(status), time.Duration(duration)*time.Millisecond)

	if step == nil {
		t.log.Warn("completed unknown step", "step_id", stepID)
		return nil
	}

	eventType := store.EventError
	if status == store.StepCompleted {
		eventType = store.EventStepComplete
	}
	description := errorMessage
	if description == "" {
		description = fmt.Sprintf("Step finished in %dms", duration)
	}
	if err := t.addEvent(ctx, store.NewTimelineEvent{
		SessionID:     step.SessionID,
		Timestamp:     endTime,
		EventType:     eventType,
		Title:         completionTitle(status) + step.Title,
		Description:   description,
		RelatedStepID: stepID,
	}); err != nil {
		return err
	}

	t.log.Info("step finished", "session_id", step.SessionID, "step_id", stepID, "status", status, "duration_ms", duration)
	return nil
}

func completionTitle(status store.StepStatus) string {
	switch status {
	case store.StepCompleted:
		return "Step completed: "
	case store.StepSkipped:
		return "Step skipped: "
	default:
		return "Step failed: "
	}
}

// AddLog attaches a log line to an existing step.
func (t *Tracker) AddLog(ctx context.Context, stepID, content string, severity store.Severity, metadata store.Metadata) (string, error) {
	step, err := t.store.GetStep(ctx, stepID)
	if err != nil {
		return "", err
	}
	if step == nil {
		return "", fmt.Errorf("add log: %w: %s", ErrStepNotFound, stepID)
	}
	if severity == "" {
		severity = store.SeverityInfo
	}
	if metadata == nil {
		metadata = store.Metadata{}
	}

	id, err := t.store.AddStepDetail(ctx, store.NewStepDetail{
		StepID:     stepID,
		DetailType: store.DetailLog,
		Timestamp:  t.now(),
		Content:    content,
		Severity:   severity,
		Metadata:   metadata,
	})
	if err != nil {
		return "", err
	}
	t.log.Debug("log added", "step_id", stepID, "severity", severity)
	return id, nil
}

// UpdateMetrics patches the session's metrics row.
func (t *Tracker) UpdateMetrics(ctx context.Context, sessionID string, p store.MetricsPatch) error {
	if err := t.store.UpdateMetrics(ctx, sessionID, p); err != nil {
		return err
	}
	t.log.Debug("metrics updated", "session_id", sessionID)
	return nil
}

// InsightInput holds the caller-supplied fields of an insight.
// A nil Confidence means DefaultConfidence.
type InsightInput struct {
	Type        store.InsightType
	Title       string
	Description string
	Confidence  *int
	Metadata    store.Metadata
}

// AddInsight appends an insight to a session and returns its id.
func (t *Tracker) AddInsight(ctx context.Context, sessionID string, in InsightInput) (string, error) {
	confidence := DefaultConfidence
	if in.Confidence != nil {
		confidence = *in.Confidence
	}
	metadata := in.Metadata
	if metadata == nil {
		metadata = store.Metadata{}
	}

	id, err := t.store.AddInsight(ctx, store.NewInsight{
		SessionID:   sessionID,
		Timestamp:   t.now(),
		InsightType: in.Type,
		Title:       in.Title,
		Description: in.Description,
		Confidence:  confidence,
		Metadata:    metadata,
	})
	if err != nil {
		return "", err
	}
	t.log.Info("insight added", "session_id", sessionID, "type", in.Type, "title", in.Title)
	return id, nil
}

// CompleteProject closes a session with the given status (completed when
// empty) and marks a milestone on its timeline.
func (t *Tracker) CompleteProject(ctx context.Context, sessionID string, status store.SessionStatus) error {
	if status == "" {
		status = store.SessionCompleted
	}
	if status != store.SessionCompleted && status != store.SessionFailed {
		return fmt.Errorf("complete project: %w: %q", ErrInvalidStatus, status)
	}

	session, err := t.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("complete project: %w: %s", ErrSessionNotFound, sessionID)
	}

	now := t.now()
	if err := t.store.UpdateSession(ctx, sessionID, store.SessionPatch{
		EndTime: &now,
		Status:  &status,
	}); err != nil {
		return err
	}

	title, description := "Project completed", "Project completed successfully"
	if status == store.SessionFailed {
		title, description = "Project failed", "Project ended in failure"
	}
	if err := t.addEvent(ctx, store.NewTimelineEvent{
		SessionID:   sessionID,
		Timestamp:   now,
		EventType:   store.EventMilestone,
		Title:       title,
		Description: description,
	}); err != nil {
		return err
	}

	t.recorder.ProjectCompleted(ctx, string(status))
	t.log.Info("project finished", "session_id", sessionID, "status", status)
	return nil
}
