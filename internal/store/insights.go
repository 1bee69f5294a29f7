package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ─── Insights ────────────────────────────────────────────────────────────────

// AddInsight appends an insight and returns its generated id.
func (s *Store) AddInsight(ctx context.Context, ni NewInsight) (string, error) {
	id := newID()
	meta, err := encodeMetadata(ni.Metadata)
	if err != nil {
		return "", fmt.Errorf("store: encode insight metadata: %w", err)
	}

	if _, err := s.execHook(ctx, s.db,
		`INSERT INTO ai_insights
			(id, session_id, timestamp, insight_type, title, description, confidence, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ni.SessionID, formatTime(ni.Timestamp), string(ni.InsightType), ni.Title,
		ni.Description, ni.Confidence, meta,
	); err != nil {
		return "", fmt.Errorf("store: add insight: %w", err)
	}
	return id, nil
}

// GetInsights returns the insights of a session, newest first.
func (s *Store) GetInsights(ctx context.Context, sessionID string) ([]Insight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, timestamp, insight_type, title, description, confidence, metadata
		 FROM ai_insights WHERE session_id = ?
		 ORDER BY timestamp DESC, rowid DESC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get insights: %w", err)
	}
	defer rows.Close()

	var insights []Insight
	for rows.Next() {
		var (
			in         Insight
			ts         string
			typ        string
			desc       sql.NullString
			confidence sql.NullInt64
			meta       sql.NullString
		)
		if err := rows.Scan(&in.ID, &in.SessionID, &ts, &typ, &in.Title, &desc, &confidence, &meta); err != nil {
			return nil, fmt.Errorf("store: scan insight: %w", err)
		}
		in.Timestamp = parseTime(ts)
		in.InsightType = InsightType(typ)
		in.Description = desc.String
		in.Confidence = int(confidence.Int64)
		in.Metadata = decodeMetadata(meta)
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

// ─── Timeline ────────────────────────────────────────────────────────────────

// AddTimelineEvent appends a timeline event and returns its generated id.
// An empty RelatedStepID is stored as NULL.
func (s *Store) AddTimelineEvent(ctx context.Context, ne NewTimelineEvent) (string, error) {
	id := newID()
	if _, err := s.execHook(ctx, s.db,
		`INSERT INTO timeline_events
			(id, session_id, timestamp, event_type, title, description, related_step_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, ne.SessionID, formatTime(ne.Timestamp), string(ne.EventType), ne.Title,
		nullableString(ne.Description), nullableString(ne.RelatedStepID),
	); err != nil {
		return "", fmt.Errorf("store: add timeline event: %w", err)
	}
	return id, nil
}

// GetTimeline returns the events of a session in chronological order.
func (s *Store) GetTimeline(ctx context.Context, sessionID string) ([]TimelineEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, timestamp, event_type, title, description, related_step_id
		 FROM timeline_events WHERE session_id = ?
		 ORDER BY timestamp ASC, rowid ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get timeline: %w", err)
	}
	defer rows.Close()

	var events []TimelineEvent
	for rows.Next() {
		var (
			ev      TimelineEvent
			ts      string
			typ     string
			desc    sql.NullString
			related sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ts, &typ, &ev.Title, &desc, &related); err != nil {
			return nil, fmt.Errorf("store: scan timeline event: %w", err)
		}
		ev.Timestamp = parseTime(ts)
		ev.EventType = EventType(typ)
		ev.Description = nullString(desc)
		ev.RelatedStepID = nullString(related)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate counts across the whole database.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{SessionsByStatus: map[string]int{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM project_sessions GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("store: stats sessions: %w", err)
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: scan stats: %w", err)
		}
		st.SessionsByStatus[status] = n
		st.TotalSessions += n
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	counts := []struct {
		table string
		dest  *int
	}{
		{"project_steps", &st.TotalSteps},
		{"ai_insights", &st.TotalInsights},
		{"timeline_events", &st.TotalEvents},
		{"step_details", &st.TotalDetails},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("store: count %s: %w", c.table, err)
		}
	}

	prows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT project_name FROM project_sessions ORDER BY project_name`)
	if err != nil {
		return nil, fmt.Errorf("store: stats projects: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var name string
		if err := prows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scan project: %w", err)
		}
		st.Projects = append(st.Projects, name)
	}
	return st, prows.Err()
}
