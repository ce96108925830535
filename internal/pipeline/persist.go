package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"trendhub/internal/store"
	"trendhub/pkg/models"
)

// ErrSnapshotWrite marks a run-fatal persistence failure: items may
// have been written, but without the snapshot the run is useless.
var ErrSnapshotWrite = errors.New("pipeline: snapshot write failed")

// Coordinator commits one run: an item record per ranked track plus
// the snapshot referencing them. IDs are assigned up front so the
// snapshot can name its items inside a single atomic batch.
type Coordinator struct {
	Store store.Store
	Log   *logrus.Logger
}

// SaveRun prefers the store's atomic batch path. Without one (or if
// the batch fails), items are written concurrently into index slots
// so TopMediaIDs keeps rank order, per-item failures are isolated,
// and the snapshot is written strictly after every item write has
// resolved.
func (c *Coordinator) SaveRun(ctx context.Context, tracks []models.MergedTrack, periodStart time.Time) (*models.TrendingSnapshot, error) {
	now := time.Now().UTC()

	items := make([]models.TrendingItem, len(tracks))
	for i, t := range tracks {
		items[i] = models.TrendingItem{
			ID:         uuid.NewString(),
			Type:       models.TrendingType,
			Title:      t.Title,
			Artist:     t.Artist,
			CoverURL:   t.CoverURL,
			PreviewURL: t.PreviewURL,
			Genres:     t.Genres,
			Sources:    t.Sources,
			Score:      t.Score,
			CreatedAt:  now,
		}
	}

	snap := &models.TrendingSnapshot{
		ID:          uuid.NewString(),
		Type:        models.TrendingType,
		Window:      models.TrendingWindow,
		PeriodStart: periodStart,
		GeneratedAt: now,
	}

	if bw, ok := c.Store.(store.BatchWriter); ok {
		snap.TopMediaIDs = itemIDs(items)
		snap.TotalItems = len(items)

		err := bw.InsertRunBatch(ctx, items, snap)
		if err == nil {
			return snap, nil
		}
		c.Log.Warnf("[persist] atomic batch failed, falling back to per-item writes: %v", err)
	}

	// Per-item path. Writes land in index slots so surviving ids keep
	// rank order; a failed item is dropped from the snapshot, not
	// fatal.
	ids := make([]string, len(items))
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := c.Store.InsertItem(ctx, &items[i]); err != nil {
				c.Log.Warnf("[persist] item write failed for %q by %q: %v", items[i].Title, items[i].Artist, err)
				return
			}
			ids[i] = items[i].ID
		}(i)
	}
	wg.Wait()

	top := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			top = append(top, id)
		}
	}
	snap.TopMediaIDs = top
	snap.TotalItems = len(top)

	if err := c.Store.InsertSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}
	return snap, nil
}

func itemIDs(items []models.TrendingItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}
