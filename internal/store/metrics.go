package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitializeMetrics inserts a zero-valued metrics row for the session.
// Calling it again for the same session is a no-op.
func (s *Store) InitializeMetrics(ctx context.Context, sessionID string) error {
	if _, err := s.execHook(ctx, s.db,
		`INSERT OR IGNORE INTO project_metrics (session_id) VALUES (?)`, sessionID,
	); err != nil {
		return fmt.Errorf("store: initialize metrics: %w", err)
	}
	return nil
}

// UpdateMetrics patches any subset of the metric fields and stamps
// updated_at. An empty patch issues no write.
func (s *Store) UpdateMetrics(ctx context.Context, sessionID string, p MetricsPatch) error {
	var up patch
	setInt := func(column string, v *int) {
		if v != nil {
			up.set(column, *v)
		}
	}
	setInt("total_files", p.TotalFiles)
	setInt("files_created", p.FilesCreated)
	setInt("files_modified", p.FilesModified)
	setInt("files_deleted", p.FilesDeleted)
	setInt("lines_of_code", p.LinesOfCode)
	setInt("commands_executed", p.CommandsExecuted)
	setInt("errors_encountered", p.ErrorsEncountered)
	if p.TimeSpent != nil {
		up.set("time_spent", *p.TimeSpent)
	}
	if p.Complexity != nil {
		up.set("complexity", string(*p.Complexity))
	}
	setInt("efficiency", p.Efficiency)

	if up.empty() {
		return nil
	}
	up.set("updated_at", formatTime(timeNow()))

	if err := s.apply(ctx, "project_metrics", "session_id", sessionID, &up); err != nil {
		return fmt.Errorf("store: update metrics: %w", err)
	}
	return nil
}

// GetMetrics returns the metrics row of a session, or nil, nil if none
// exists.
func (s *Store) GetMetrics(ctx context.Context, sessionID string) (*Metrics, error) {
	var (
		m          Metrics
		complexity string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, total_files, files_created, files_modified, files_deleted,
		        lines_of_code, commands_executed, errors_encountered, time_spent,
		        complexity, efficiency, updated_at
		 FROM project_metrics WHERE session_id = ?`, sessionID,
	).Scan(&m.SessionID, &m.TotalFiles, &m.FilesCreated, &m.FilesModified, &m.FilesDeleted,
		&m.LinesOfCode, &m.CommandsExecuted, &m.ErrorsEncountered, &m.TimeSpent,
		&complexity, &m.Efficiency, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get metrics: %w", err)
	}
	m.Complexity = Complexity(complexity)
	return &m, nil
}
