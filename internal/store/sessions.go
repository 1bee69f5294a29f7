package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const sessionColumns = `id, project_name, description, start_time, end_time, status,
	total_steps, current_step, ai_model, metadata`

// CreateSession persists a new session and eagerly creates its zero-valued
// metrics row. It returns the generated session id.
func (s *Store) CreateSession(ctx context.Context, ns NewSession) (string, error) {
	id := newID()
	meta, err := encodeMetadata(ns.Metadata)
	if err != nil {
		return "", fmt.Errorf("store: encode session metadata: %w", err)
	}

	if _, err := s.execHook(ctx, s.db,
		`INSERT INTO project_sessions
			(id, project_name, description, start_time, status, total_steps, current_step, ai_model, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ns.ProjectName, ns.Description, formatTime(ns.StartTime), string(ns.Status),
		ns.TotalSteps, ns.CurrentStep, ns.AIModel, meta,
	); err != nil {
		return "", fmt.Errorf("store: create session: %w", err)
	}

	if err := s.InitializeMetrics(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// GetSession retrieves a session by id. It returns nil, nil when no row
// matches.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM project_sessions WHERE id = ?`, id,
	)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	return sess, nil
}

// UpdateSession applies a field-level patch. An empty patch is a no-op.
func (s *Store) UpdateSession(ctx context.Context, id string, p SessionPatch) error {
	var up patch
	if p.ProjectName != nil {
		up.set("project_name", *p.ProjectName)
	}
	if p.Description != nil {
		up.set("description", *p.Description)
	}
	if p.EndTime != nil {
		up.set("end_time", formatTime(*p.EndTime))
	}
	if p.Status != nil {
		up.set("status", string(*p.Status))
	}
	if p.TotalSteps != nil {
		up.set("total_steps", *p.TotalSteps)
	}
	if p.CurrentStep != nil {
		up.set("current_step", *p.CurrentStep)
	}

	if err := s.apply(ctx, "project_sessions", "id", id, &up); err != nil {
		return fmt.Errorf("store: update session: %w", err)
	}
	return nil
}

// ListSessions returns sessions newest start time first, optionally
// filtered by status and capped by limit.
func (s *Store) ListSessions(ctx context.Context, opts ListSessionsOptions) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM project_sessions`
	args := []any{}

	if opts.Status != "" {
		query += " WHERE status = ?"
		args = append(args, string(opts.Status))
	}

	query += " ORDER BY start_time DESC, rowid DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*Session, error) {
	var (
		sess      Session
		desc      sql.NullString
		startTime string
		endTime   sql.NullString
		status    string
		aiModel   sql.NullString
		meta      sql.NullString
	)
	if err := sc.Scan(&sess.ID, &sess.ProjectName, &desc, &startTime, &endTime, &status,
		&sess.TotalSteps, &sess.CurrentStep, &aiModel, &meta); err != nil {
		return nil, err
	}
	sess.Description = desc.String
	sess.StartTime = parseTime(startTime)
	sess.EndTime = parseNullTime(endTime)
	sess.Status = SessionStatus(status)
	sess.AIModel = aiModel.String
	sess.Metadata = decodeMetadata(meta)
	return &sess, nil
}
