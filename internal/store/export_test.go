package store

import (
	"context"
	"database/sql"
	"strings"
)

// DB exposes the internal *sql.DB for test helpers in store_test.
// This file only compiles during `go test`.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CountWrites installs an exec hook that counts UPDATE statements issued
// against table. It returns a function reporting the running total.
func (s *Store) CountWrites(table string) func() int {
	n := 0
	s.hooks.exec = func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
		if strings.HasPrefix(query, "UPDATE "+table+" ") {
			n++
		}
		return db.ExecContext(ctx, query, args...)
	}
	return func() int { return n }
}

// SetIDGenerator replaces the id generator and returns a restore func.
func SetIDGenerator(fn func() string) func() {
	prev := newID
	newID = fn
	return func() { newID = prev }
}
