package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"trendhub/pkg/models"
)

// SQLite is the local/dev store, backed by the schema in pkg/database.
// List-valued fields are stored as JSON text. A run batch is one
// transaction, so it gives the same no-dangling-reference guarantee as
// the Mongo transaction path.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) InsertItem(ctx context.Context, item *models.TrendingItem) error {
	return insertItem(ctx, s.db, item)
}

func (s *SQLite) InsertSnapshot(ctx context.Context, snap *models.TrendingSnapshot) error {
	return insertSnapshot(ctx, s.db, snap)
}

func (s *SQLite) InsertRunBatch(ctx context.Context, items []models.TrendingItem, snap *models.TrendingSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i := range items {
		if err := insertItem(ctx, tx, &items[i]); err != nil {
			return err
		}
	}
	if err := insertSnapshot(ctx, tx, snap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// execer lets the insert helpers run against *sql.DB or *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertItem(ctx context.Context, db execer, item *models.TrendingItem) error {
	genresJSON, err := json.Marshal(item.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres for %s: %w", item.ID, err)
	}
	sourcesJSON, err := json.Marshal(item.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources for %s: %w", item.ID, err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO trending_items (id, type, title, artist, cover_url, preview_url, genres, sources, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID,
		item.Type,
		item.Title,
		item.Artist,
		item.CoverURL,
		item.PreviewURL,
		string(genresJSON),
		string(sourcesJSON),
		item.Score,
		item.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert item %s: %w", item.ID, err)
	}
	return nil
}

func insertSnapshot(ctx context.Context, db execer, snap *models.TrendingSnapshot) error {
	idsJSON, err := json.Marshal(snap.TopMediaIDs)
	if err != nil {
		return fmt.Errorf("marshal top media ids: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO trending_snapshots (id, type, win, period_start, top_media_ids, generated_at, total_items)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		snap.ID,
		snap.Type,
		snap.Window,
		snap.PeriodStart,
		string(idsJSON),
		snap.GeneratedAt,
		snap.TotalItems,
	); err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snap.ID, err)
	}
	return nil
}

func (s *SQLite) LatestSnapshot(ctx context.Context, mediaType string) (*models.TrendingSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, win, period_start, top_media_ids, generated_at, total_items
		FROM trending_snapshots
		WHERE type = ?
		ORDER BY generated_at DESC
		LIMIT 1
	`, mediaType)

	var (
		snap    models.TrendingSnapshot
		idsJSON string
	)
	if err := row.Scan(
		&snap.ID, &snap.Type, &snap.Window, &snap.PeriodStart, &idsJSON, &snap.GeneratedAt, &snap.TotalItems,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan latest snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(idsJSON), &snap.TopMediaIDs); err != nil {
		return nil, fmt.Errorf("unmarshal top media ids: %w", err)
	}
	return &snap, nil
}

func (s *SQLite) ItemsByIDs(ctx context.Context, ids []string) ([]models.TrendingItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, artist, cover_url, preview_url, genres, sources, score, created_at
		FROM trending_items
		WHERE id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	out := make([]models.TrendingItem, 0, len(ids))
	for rows.Next() {
		var (
			item        models.TrendingItem
			coverURL    sql.NullString
			previewURL  sql.NullString
			genresJSON  string
			sourcesJSON string
		)
		if err := rows.Scan(
			&item.ID, &item.Type, &item.Title, &item.Artist,
			&coverURL, &previewURL, &genresJSON, &sourcesJSON,
			&item.Score, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		item.CoverURL = coverURL.String
		item.PreviewURL = previewURL.String
		_ = json.Unmarshal([]byte(genresJSON), &item.Genres)
		_ = json.Unmarshal([]byte(sourcesJSON), &item.Sources)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close(context.Context) error {
	return s.db.Close()
}
