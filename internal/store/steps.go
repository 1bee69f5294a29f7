package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const stepColumns = `id, session_id, step_number, step_type, title, description, start_time,
	end_time, status, input, output, error_message, duration, metadata`

// CreateStep persists a new step and returns its generated id.
// Output is not written here; it is only set by UpdateStep.
func (s *Store) CreateStep(ctx context.Context, ns NewStep) (string, error) {
	id := newID()
	input, err := encodeMetadata(ns.Input)
	if err != nil {
		return "", fmt.Errorf("store: encode step input: %w", err)
	}
	meta, err := encodeMetadata(ns.Metadata)
	if err != nil {
		return "", fmt.Errorf("store: encode step metadata: %w", err)
	}

	if _, err := s.execHook(ctx, s.db,
		`INSERT INTO project_steps
			(id, session_id, step_number, step_type, title, description, start_time, status, input, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ns.SessionID, ns.StepNumber, string(ns.StepType), ns.Title, ns.Description,
		formatTime(ns.StartTime), string(ns.Status), input, meta,
	); err != nil {
		return "", fmt.Errorf("store: create step: %w", err)
	}
	return id, nil
}

// UpdateStep applies a field-level patch. An empty patch is a no-op.
func (s *Store) UpdateStep(ctx context.Context, id string, p StepPatch) error {
	var up patch
	if p.EndTime != nil {
		up.set("end_time", formatTime(*p.EndTime))
	}
	if p.Status != nil {
		up.set("status", string(*p.Status))
	}
	if p.Output != nil {
		out, err := encodeMetadata(p.Output)
		if err != nil {
			return fmt.Errorf("store: encode step output: %w", err)
		}
		up.set("output", out)
	}
	if p.ErrorMessage != nil {
		up.set("error_message", *p.ErrorMessage)
	}
	if p.Duration != nil {
		up.set("duration", *p.Duration)
	}

	if err := s.apply(ctx, "project_steps", "id", id, &up); err != nil {
		return fmt.Errorf("store: update step: %w", err)
	}
	return nil
}

// GetStep retrieves a step by id. It returns nil, nil when no row matches.
func (s *Store) GetStep(ctx context.Context, id string) (*Step, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+stepColumns+` FROM project_steps WHERE id = ?`, id,
	)
	step, err := scanStep(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get step: %w", err)
	}
	return step, nil
}

// GetSteps returns every step of a session ordered by step number.
func (s *Store) GetSteps(ctx context.Context, sessionID string) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stepColumns+` FROM project_steps
		 WHERE session_id = ?
		 ORDER BY step_number ASC, rowid ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get steps: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan step: %w", err)
		}
		steps = append(steps, *step)
	}
	return steps, rows.Err()
}

func scanStep(sc scanner) (*Step, error) {
	var (
		step      Step
		stepType  string
		desc      sql.NullString
		startTime string
		endTime   sql.NullString
		status    string
		input     sql.NullString
		output    sql.NullString
		errMsg    sql.NullString
		duration  sql.NullInt64
		meta      sql.NullString
	)
	if err := sc.Scan(&step.ID, &step.SessionID, &step.StepNumber, &stepType, &step.Title, &desc,
		&startTime, &endTime, &status, &input, &output, &errMsg, &duration, &meta); err != nil {
		return nil, err
	}
	step.StepType = StepType(stepType)
	step.Description = desc.String
	step.StartTime = parseTime(startTime)
	step.EndTime = parseNullTime(endTime)
	step.Status = StepStatus(status)
	step.Input = decodeMetadata(input)
	step.Output = decodeMetadata(output)
	step.ErrorMessage = nullString(errMsg)
	if duration.Valid {
		d := duration.Int64
		step.Duration = &d
	}
	step.Metadata = decodeMetadata(meta)
	return &step, nil
}

// ─── Step details ────────────────────────────────────────────────────────────

// AddStepDetail appends a log line or note to a step.
func (s *Store) AddStepDetail(ctx context.Context, nd NewStepDetail) (string, error) {
	id := newID()
	meta, err := encodeMetadata(nd.Metadata)
	if err != nil {
		return "", fmt.Errorf("store: encode detail metadata: %w", err)
	}
	severity := nd.Severity
	if severity == "" {
		severity = SeverityInfo
	}

	if _, err := s.execHook(ctx, s.db,
		`INSERT INTO step_details (id, step_id, detail_type, timestamp, content, severity, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, nd.StepID, string(nd.DetailType), formatTime(nd.Timestamp), nd.Content, string(severity), meta,
	); err != nil {
		return "", fmt.Errorf("store: add step detail: %w", err)
	}
	return id, nil
}

// GetStepDetails returns the details of a step, oldest first.
func (s *Store) GetStepDetails(ctx context.Context, stepID string) ([]StepDetail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, step_id, detail_type, timestamp, content, severity, metadata
		 FROM step_details WHERE step_id = ?
		 ORDER BY timestamp ASC, rowid ASC`, stepID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get step details: %w", err)
	}
	defer rows.Close()

	var details []StepDetail
	for rows.Next() {
		var (
			d        StepDetail
			typ      string
			ts       string
			severity sql.NullString
			meta     sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.StepID, &typ, &ts, &d.Content, &severity, &meta); err != nil {
			return nil, fmt.Errorf("store: scan step detail: %w", err)
		}
		d.DetailType = DetailType(typ)
		d.Timestamp = parseTime(ts)
		d.Severity = Severity(severity.String)
		d.Metadata = decodeMetadata(meta)
		details = append(details, d)
	}
	return details, rows.Err()
}
