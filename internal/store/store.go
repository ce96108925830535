package store

import (
	"context"
	"errors"

	"trendhub/pkg/models"
)

// ErrNotFound is returned by lookups that matched nothing. Callers on
// the read path translate it into an empty result, not a failure.
var ErrNotFound = errors.New("store: not found")

// Store is the document-persistence capability the pipeline and the
// read path need. Item and snapshot IDs are assigned by the caller
// before insert so a snapshot can reference its items inside one
// batch.
type Store interface {
	InsertItem(ctx context.Context, item *models.TrendingItem) error
	InsertSnapshot(ctx context.Context, snap *models.TrendingSnapshot) error

	// LatestSnapshot returns the newest snapshot (by GeneratedAt) for
	// the given media type, or ErrNotFound.
	LatestSnapshot(ctx context.Context, mediaType string) (*models.TrendingSnapshot, error)

	// ItemsByIDs fetches the given item records. Order of the result
	// is unspecified; missing ids are silently absent.
	ItemsByIDs(ctx context.Context, ids []string) ([]models.TrendingItem, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// BatchWriter is implemented by stores that can commit a full run
// (all item records plus the snapshot referencing them) atomically.
// The persistence coordinator prefers this path; a reader then never
// sees a snapshot whose items do not exist yet.
type BatchWriter interface {
	InsertRunBatch(ctx context.Context, items []models.TrendingItem, snap *models.TrendingSnapshot) error
}
