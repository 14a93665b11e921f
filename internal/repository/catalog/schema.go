package catalog

import (
	"context"

	"github.com/kailas-cloud/coursedex/internal/db"
)

// Portable between postgres and sqlite: list columns hold JSON text, booleans are 0/1.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id               TEXT PRIMARY KEY,
		host             TEXT NOT NULL DEFAULT '',
		term_id          TEXT NOT NULL,
		subject          TEXT NOT NULL,
		class_id         TEXT NOT NULL,
		name             TEXT NOT NULL DEFAULT '',
		description      TEXT NOT NULL DEFAULT '',
		min_credits      INTEGER NOT NULL DEFAULT 0,
		max_credits      INTEGER NOT NULL DEFAULT 0,
		class_attributes TEXT NOT NULL DEFAULT '[]',
		nupath           TEXT NOT NULL DEFAULT '[]',
		schedule_type    TEXT NOT NULL DEFAULT '',
		pretty_url       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS courses_subject_idx ON courses (subject)`,
	`CREATE TABLE IF NOT EXISTS sections (
		course_id       TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
		crn             TEXT NOT NULL,
		seats_capacity  INTEGER NOT NULL DEFAULT 0,
		seats_remaining INTEGER NOT NULL DEFAULT 0,
		wait_capacity   INTEGER NOT NULL DEFAULT 0,
		wait_remaining  INTEGER NOT NULL DEFAULT 0,
		online          INTEGER NOT NULL DEFAULT 0,
		profs           TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (course_id, crn)
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL DEFAULT '',
		first_name         TEXT NOT NULL DEFAULT '',
		last_name          TEXT NOT NULL DEFAULT '',
		emails             TEXT NOT NULL DEFAULT '[]',
		phone              TEXT NOT NULL DEFAULT '',
		primary_role       TEXT NOT NULL DEFAULT '',
		primary_department TEXT NOT NULL DEFAULT ''
	)`,
}

// Migrate creates the catalog tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	return nil
}
