package sqlstore

import (
	"context"
	"fmt"
)

// schema is portable between SQLite and Postgres. Timestamps are unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS beaches (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		municipality TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		cover_image TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		third_party_rating DOUBLE PRECISION,
		third_party_count INTEGER NOT NULL DEFAULT 0,
		community_rating DOUBLE PRECISION,
		community_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_beaches_status ON beaches(status, municipality)`,
	`CREATE TABLE IF NOT EXISTS beach_attributes (
		beach_id TEXT NOT NULL REFERENCES beaches(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		value TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (beach_id, kind, value)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_beach_attributes_value ON beach_attributes(kind, value)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		beach_id TEXT NOT NULL REFERENCES beaches(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL,
		author_name TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_beach ON reviews(beach_id, status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_status ON reviews(status, created_at)`,
}

func (s *Store) migrate(ctx context.Context) error {
	q := s.q()
	for i, stmt := range schema {
		if _, err := q.exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
