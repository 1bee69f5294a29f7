package store

import "time"

// ─── Enumerations ────────────────────────────────────────────────────────────

// SessionStatus is the lifecycle state of a project session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionPaused    SessionStatus = "paused"
	SessionFailed    SessionStatus = "failed"
)

// SessionStatusValues returns every session status, in declaration order.
func SessionStatusValues() []string {
	return []string{string(SessionActive), string(SessionCompleted), string(SessionPaused), string(SessionFailed)}
}

// StepStatus is the lifecycle state of a step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
	StepSkipped    StepStatus = "skipped"
)

// StepStatusValues returns every step status, in declaration order.
func StepStatusValues() []string {
	return []string{string(StepPending), string(StepInProgress), string(StepCompleted), string(StepFailed), string(StepSkipped)}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s StepStatus) IsTerminal() bool {
	return s == StepCompleted || s == StepFailed || s == StepSkipped
}

// StepType classifies the kind of work a step performs.
type StepType string

const (
	StepAnalysis          StepType = "analysis"
	StepFileRead          StepType = "file_read"
	StepFileWrite         StepType = "file_write"
	StepCodeGeneration    StepType = "code_generation"
	StepDependencyInstall StepType = "dependency_install"
	StepCommandExecution  StepType = "command_execution"
	StepTesting           StepType = "testing"
	StepDebugging         StepType = "debugging"
	StepOptimization      StepType = "optimization"
	StepDeployment        StepType = "deployment"
	StepDocumentation     StepType = "documentation"
	StepResearch          StepType = "research"
	StepPlanning          StepType = "planning"
	StepReview            StepType = "review"
	StepCustom            StepType = "custom"
)

// StepTypeValues returns every step type, in declaration order.
func StepTypeValues() []string {
	return []string{
		string(StepAnalysis), string(StepFileRead), string(StepFileWrite),
		string(StepCodeGeneration), string(StepDependencyInstall), string(StepCommandExecution),
		string(StepTesting), string(StepDebugging), string(StepOptimization),
		string(StepDeployment), string(StepDocumentation), string(StepResearch),
		string(StepPlanning), string(StepReview), string(StepCustom),
	}
}

// Complexity is the caller's rating of a project.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ComplexityValues returns every complexity rating.
func ComplexityValues() []string {
	return []string{string(ComplexityLow), string(ComplexityMedium), string(ComplexityHigh)}
}

// InsightType classifies an insight.
type InsightType string

const (
	InsightPattern        InsightType = "pattern"
	InsightRecommendation InsightType = "recommendation"
	InsightWarning        InsightType = "warning"
	InsightOptimization   InsightType = "optimization"
	InsightMilestone      InsightType = "milestone"
)

// InsightTypeValues returns every insight type.
func InsightTypeValues() []string {
	return []string{
		string(InsightPattern), string(InsightRecommendation), string(InsightWarning),
		string(InsightOptimization), string(InsightMilestone),
	}
}

// EventType classifies a timeline event.
type EventType string

const (
	EventStepStart    EventType = "step_start"
	EventStepComplete EventType = "step_complete"
	EventError        EventType = "error"
	EventMilestone    EventType = "milestone"
	EventPause        EventType = "pause"
	EventResume       EventType = "resume"
)

// EventTypeValues returns every timeline event type.
func EventTypeValues() []string {
	return []string{
		string(EventStepStart), string(EventStepComplete), string(EventError),
		string(EventMilestone), string(EventPause), string(EventResume),
	}
}

// DetailType classifies a step detail entry.
type DetailType string

const (
	DetailLog        DetailType = "log"
	DetailFileChange DetailType = "file_change"
	DetailCommand    DetailType = "command"
	DetailError      DetailType = "error"
	DetailNote       DetailType = "note"
	DetailMetric     DetailType = "metric"
)

// Severity is the level of a step detail entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityDebug   Severity = "debug"
)

// SeverityValues returns every severity level.
func SeverityValues() []string {
	return []string{string(SeverityInfo), string(SeverityWarning), string(SeverityError), string(SeverityDebug)}
}

// ─── Entities ────────────────────────────────────────────────────────────────

// Session is one tracked project-activity run.
type Session struct {
	ID          string        `json:"id" yaml:"id"`
	ProjectName string        `json:"projectName" yaml:"project_name"`
	Description string        `json:"description" yaml:"description"`
	StartTime   time.Time     `json:"startTime" yaml:"start_time"`
	EndTime     *time.Time    `json:"endTime,omitempty" yaml:"end_time,omitempty"`
	Status      SessionStatus `json:"status" yaml:"status"`
	TotalSteps  int           `json:"totalSteps" yaml:"total_steps"`
	CurrentStep int           `json:"currentStep" yaml:"current_step"`
	AIModel     string        `json:"aiModel" yaml:"ai_model"`
	Metadata    Metadata      `json:"metadata" yaml:"metadata"`
}

// NewSession holds the input for CreateSession.
type NewSession struct {
	ProjectName string
	Description string
	StartTime   time.Time
	Status      SessionStatus
	TotalSteps  int
	CurrentStep int
	AIModel     string
	Metadata    Metadata
}

// SessionPatch holds partial update fields for a session.
// Nil fields are left untouched.
type SessionPatch struct {
	ProjectName *string
	Description *string
	EndTime     *time.Time
	Status      *SessionStatus
	TotalSteps  *int
	CurrentStep *int
}

// ListSessionsOptions filters ListSessions. Zero values mean no filter.
type ListSessionsOptions struct {
	Status SessionStatus
	Limit  int
}

// Step is one discrete unit of work within a session.
type Step struct {
	ID           string     `json:"id" yaml:"id"`
	SessionID    string     `json:"sessionId" yaml:"session_id"`
	StepNumber   int        `json:"stepNumber" yaml:"step_number"`
	StepType     StepType   `json:"stepType" yaml:"step_type"`
	Title        string     `json:"title" yaml:"title"`
	Description  string     `json:"description" yaml:"description"`
	StartTime    time.Time  `json:"startTime" yaml:"start_time"`
	EndTime      *time.Time `json:"endTime,omitempty" yaml:"end_time,omitempty"`
	Status       StepStatus `json:"status" yaml:"status"`
	Input        Metadata   `json:"input,omitempty" yaml:"input,omitempty"`
	Output       Metadata   `json:"output,omitempty" yaml:"output,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty" yaml:"error_message,omitempty"`
	Duration     *int64     `json:"duration,omitempty" yaml:"duration,omitempty"` // milliseconds
	Metadata     Metadata   `json:"metadata" yaml:"metadata"`
}

// NewStep holds the input for CreateStep. Output is only set via UpdateStep.
type NewStep struct {
	SessionID   string
	StepNumber  int
	StepType    StepType
	Title       string
	Description string
	StartTime   time.Time
	Status      StepStatus
	Input       Metadata
	Metadata    Metadata
}

// StepPatch holds partial update fields for a step.
type StepPatch struct {
	EndTime      *time.Time
	Status       *StepStatus
	Output       Metadata
	ErrorMessage *string
	Duration     *int64
}

// Metrics is the single aggregate-counter record of a session.
type Metrics struct {
	SessionID         string     `json:"sessionId" yaml:"session_id"`
	TotalFiles        int        `json:"totalFiles" yaml:"total_files"`
	FilesCreated      int        `json:"filesCreated" yaml:"files_created"`
	FilesModified     int        `json:"filesModified" yaml:"files_modified"`
	FilesDeleted      int        `json:"filesDeleted" yaml:"files_deleted"`
	LinesOfCode       int        `json:"linesOfCode" yaml:"lines_of_code"`
	CommandsExecuted  int        `json:"commandsExecuted" yaml:"commands_executed"`
	ErrorsEncountered int        `json:"errorsEncountered" yaml:"errors_encountered"`
	TimeSpent         int64      `json:"timeSpent" yaml:"time_spent"`
	Complexity        Complexity `json:"complexity" yaml:"complexity"`
	Efficiency        int        `json:"efficiency" yaml:"efficiency"`
	UpdatedAt         string     `json:"-" yaml:"-"`
}

// ZeroMetrics returns the all-zero metrics record used when none is stored.
func ZeroMetrics(sessionID string) Metrics {
	return Metrics{SessionID: sessionID, Complexity: ComplexityLow}
}

// MetricsPatch holds partial update fields for a metrics row.
// The session id is never patchable.
type MetricsPatch struct {
	TotalFiles        *int        `json:"totalFiles,omitempty"`
	FilesCreated      *int        `json:"filesCreated,omitempty"`
	FilesModified     *int        `json:"filesModified,omitempty"`
	FilesDeleted      *int        `json:"filesDeleted,omitempty"`
	LinesOfCode       *int        `json:"linesOfCode,omitempty"`
	CommandsExecuted  *int        `json:"commandsExecuted,omitempty"`
	ErrorsEncountered *int        `json:"errorsEncountered,omitempty"`
	TimeSpent         *int64      `json:"timeSpent,omitempty"`
	Complexity        *Complexity `json:"complexity,omitempty"`
	Efficiency        *int        `json:"efficiency,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p MetricsPatch) IsEmpty() bool {
	return p.TotalFiles == nil && p.FilesCreated == nil && p.FilesModified == nil &&
		p.FilesDeleted == nil && p.LinesOfCode == nil && p.CommandsExecuted == nil &&
		p.ErrorsEncountered == nil && p.TimeSpent == nil && p.Complexity == nil &&
		p.Efficiency == nil
}

// Insight is an append-only observation attached to a session.
type Insight struct {
	ID          string      `json:"id" yaml:"id"`
	SessionID   string      `json:"sessionId" yaml:"session_id"`
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp"`
	InsightType InsightType `json:"insightType" yaml:"insight_type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Confidence  int         `json:"confidence" yaml:"confidence"`
	Metadata    Metadata    `json:"metadata" yaml:"metadata"`
}

// NewInsight holds the input for AddInsight.
type NewInsight struct {
	SessionID   string
	Timestamp   time.Time
	InsightType InsightType
	Title       string
	Description string
	Confidence  int
	Metadata    Metadata
}

// TimelineEvent is an append-only chronological log entry.
// RelatedStepID is a soft link and may dangle.
type TimelineEvent struct {
	ID            string    `json:"id" yaml:"id"`
	SessionID     string    `json:"sessionId" yaml:"session_id"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	EventType     EventType `json:"eventType" yaml:"event_type"`
	Title         string    `json:"title" yaml:"title"`
	Description   *string   `json:"description,omitempty" yaml:"description,omitempty"`
	RelatedStepID *string   `json:"relatedStepId,omitempty" yaml:"related_step_id,omitempty"`
}

// NewTimelineEvent holds the input for AddTimelineEvent.
type NewTimelineEvent struct {
	SessionID     string
	Timestamp     time.Time
	EventType     EventType
	Title         string
	Description   string
	RelatedStepID string
}

// StepDetail is a log line or note attached to a step.
type StepDetail struct {
	ID         string     `json:"id" yaml:"id"`
	StepID     string     `json:"stepId" yaml:"step_id"`
	DetailType DetailType `json:"detailType" yaml:"detail_type"`
	Timestamp  time.Time  `json:"timestamp" yaml:"timestamp"`
	Content    string     `json:"content" yaml:"content"`
	Severity   Severity   `json:"severity,omitempty" yaml:"severity,omitempty"`
	Metadata   Metadata   `json:"metadata" yaml:"metadata"`
}

// NewStepDetail holds the input for AddStepDetail.
type NewStepDetail struct {
	StepID     string
	DetailType DetailType
	Timestamp  time.Time
	Content    string
	Severity   Severity
	Metadata   Metadata
}

// Stats holds aggregate database statistics.
type Stats struct {
	TotalSessions    int            `json:"totalSessions" yaml:"total_sessions"`
	SessionsByStatus map[string]int `json:"sessionsByStatus" yaml:"sessions_by_status"`
	TotalSteps       int            `json:"totalSteps" yaml:"total_steps"`
	TotalInsights    int            `json:"totalInsights" yaml:"total_insights"`
	TotalEvents      int            `json:"totalEvents" yaml:"total_events"`
	TotalDetails     int            `json:"totalDetails" yaml:"total_details"`
	Projects         []string       `json:"projects" yaml:"projects"`
}
