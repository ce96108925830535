// Package storetest provides an in-memory Store for pipeline and
// read-path tests, with injectable per-item failures.
package storetest

import (
	"context"
	"errors"
	"sync"

	"trendhub/internal/store"
	"trendhub/pkg/models"
)

// Store is a map-backed store. Zero value is not usable; call New.
// FailTitles injects an insert failure for any item with a matching
// title; FailSnapshot fails every snapshot write.
type Store struct {
	mu           sync.Mutex
	Items        map[string]models.TrendingItem
	Snapshots    []models.TrendingSnapshot
	FailTitles   map[string]bool
	FailSnapshot bool
}

func New() *Store {
	return &Store{
		Items:      make(map[string]models.TrendingItem),
		FailTitles: make(map[string]bool),
	}
}

func (s *Store) InsertItem(_ context.Context, item *models.TrendingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailTitles[item.Title] {
		return errors.New("storetest: injected item failure")
	}
	s.Items[item.ID] = *item
	return nil
}

func (s *Store) InsertSnapshot(_ context.Context, snap *models.TrendingSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSnapshot {
		return errors.New("storetest: injected snapshot failure")
	}
	s.Snapshots = append(s.Snapshots, *snap)
	return nil
}

func (s *Store) LatestSnapshot(_ context.Context, mediaType string) (*models.TrendingSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *models.TrendingSnapshot
	for i := range s.Snapshots {
		snap := &s.Snapshots[i]
		if snap.Type != mediaType {
			continue
		}
		if latest == nil || snap.GeneratedAt.After(latest.GeneratedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}

	out := *latest
	return &out, nil
}

func (s *Store) ItemsByIDs(_ context.Context, ids []string) ([]models.TrendingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// map iteration keeps the returned order arbitrary, like a real
	// document store
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var out []models.TrendingItem
	for id, item := range s.Items {
		if want[id] {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

// BatchStore adds the atomic path on top of Store. FailBatch makes
// InsertRunBatch fail without partial writes, so tests can drive the
// coordinator's fallback.
type BatchStore struct {
	*Store
	FailBatch  bool
	BatchCalls int
}

func NewBatch() *BatchStore {
	return &BatchStore{Store: New()}
}

func (s *BatchStore) InsertRunBatch(ctx context.Context, items []models.TrendingItem, snap *models.TrendingSnapshot) error {
	s.mu.Lock()
	s.BatchCalls++
	fail := s.FailBatch
	s.mu.Unlock()

	if fail {
		return errors.New("storetest: injected batch failure")
	}

	for i := range items {
		if err := s.InsertItem(ctx, &items[i]); err != nil {
			return err
		}
	}
	return s.InsertSnapshot(ctx, snap)
}
