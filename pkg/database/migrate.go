package database

import (
	"database/sql"
	"fmt"
)

// schema for the local sqlite store. Genres and sources are stored as
// JSON array text, top_media_ids likewise; mirrors the document shape
// used by the Mongo store.
const schema = `
CREATE TABLE IF NOT EXISTS trending_items (
  id          TEXT PRIMARY KEY,
  type        TEXT NOT NULL,
  title       TEXT NOT NULL,
  artist      TEXT NOT NULL,
  cover_url   TEXT,
  preview_url TEXT,
  genres      TEXT NOT NULL DEFAULT '[]',
  sources     TEXT NOT NULL DEFAULT '[]',
  score       REAL NOT NULL,
  created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS trending_snapshots (
  id            TEXT PRIMARY KEY,
  type          TEXT NOT NULL,
  win           TEXT NOT NULL,
  period_start  TIMESTAMP NOT NULL,
  top_media_ids TEXT NOT NULL DEFAULT '[]',
  generated_at  TIMESTAMP NOT NULL,
  total_items   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_type_generated
  ON trending_snapshots (type, generated_at DESC);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
