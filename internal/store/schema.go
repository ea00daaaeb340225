package store

import (
	"context"
	"fmt"
)

// migrations run in order; each is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS app_users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title        TEXT NOT NULL,
		slug         TEXT NOT NULL UNIQUE,
		category     TEXT NOT NULL,
		content      TEXT NOT NULL,
		excerpt      TEXT,
		image_url    TEXT,
		tags         TEXT[] NOT NULL DEFAULT '{}',
		is_published BOOLEAN NOT NULL DEFAULT false,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS contemplation_entries (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id          UUID NOT NULL,
		title            TEXT NOT NULL,
		content          TEXT NOT NULL,
		verse_reference  TEXT,
		observation_type TEXT NOT NULL DEFAULT 'reflection',
		images           TEXT[] NOT NULL DEFAULT '{}',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS contemplation_entries_user_idx
		ON contemplation_entries (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS quiz_questions (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		category       TEXT NOT NULL,
		question       TEXT NOT NULL,
		options        JSONB NOT NULL,
		correct_answer TEXT NOT NULL,
		explanation    TEXT,
		difficulty     TEXT NOT NULL DEFAULT 'facile',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempts (
		id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id         UUID NOT NULL,
		quiz_date       DATE NOT NULL,
		score           INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		badges_earned   TEXT[] NOT NULL DEFAULT '{}',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS weekends (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		image_url   TEXT,
		start_date  TIMESTAMPTZ NOT NULL,
		sections    JSONB NOT NULL DEFAULT '[]',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_by  UUID
	)`,
}

// Migrate creates the application tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	s.log.Info("applied %d migrations", len(migrations))
	return nil
}
