package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Metadata is an open key-value payload attached to sessions, steps,
// insights and step details. Values are whatever encoding/json decodes
// into: string, float64, bool, nil, []any or map[string]any.
type Metadata map[string]any

// timeLayout is RFC 3339 with fixed-width nanoseconds so that lexical
// order of stored strings matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteLayout is the format produced by CURRENT_TIMESTAMP.
const sqliteLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(sqliteLayout, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

// encodeMetadata serializes m to JSON text. A nil map encodes as "{}".
func encodeMetadata(m Metadata) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeMetadata parses stored JSON text. Absent or malformed text
// yields an empty map, never an error.
func decodeMetadata(ns sql.NullString) Metadata {
	m := Metadata{}
	if !ns.Valid || ns.String == "" {
		return m
	}
	if err := json.Unmarshal([]byte(ns.String), &m); err != nil || m == nil {
		return Metadata{}
	}
	return m
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
