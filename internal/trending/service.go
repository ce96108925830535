package trending

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trendhub/internal/store"
	"trendhub/pkg/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Result is the read endpoint payload. Message is only set for the
// no-snapshot case; an empty keyword match is a normal result with
// Total 0.
type Result struct {
	Items       []models.TrendingItem `json:"items"`
	Total       int                   `json:"total"`
	GeneratedAt *time.Time            `json:"generated_at,omitempty"`
	Message     string                `json:"message,omitempty"`
}

// Service resolves the latest committed snapshot and serves its items
// in rank order. Read-only and stateless per call; safe to use
// concurrently with pipeline runs.
type Service struct {
	Store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{Store: st}
}

// GetTrending fetches the items referenced by the newest music
// snapshot, restores the snapshot's rank order (store lookups do not
// guarantee one), applies the optional comma-separated keyword filter
// and truncates to limit. Ids whose record cannot be resolved are
// dropped, tolerating partially persisted runs.
func (s *Service) GetTrending(ctx context.Context, limit int, keywords string) (*Result, error) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	snap, err := s.Store.LatestSnapshot(ctx, models.TrendingType)
	if errors.Is(err, store.ErrNotFound) {
		return &Result{
			Items:   []models.TrendingItem{},
			Message: "No trending data available",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}

	fetched, err := s.Store.ItemsByIDs(ctx, snap.TopMediaIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	byID := make(map[string]models.TrendingItem, len(fetched))
	for _, item := range fetched {
		byID[item.ID] = item
	}

	ordered := make([]models.TrendingItem, 0, len(snap.TopMediaIDs))
	for _, id := range snap.TopMediaIDs {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}

	filtered := filterByKeywords(ordered, keywords)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	generatedAt := snap.GeneratedAt
	return &Result{
		Items:       filtered,
		Total:       len(filtered),
		GeneratedAt: &generatedAt,
	}, nil
}

// filterByKeywords keeps items whose title+artist+genres contains at
// least one keyword, case-insensitive substring match. Never reorders.
func filterByKeywords(items []models.TrendingItem, keywords string) []models.TrendingItem {
	var terms []string
	for _, k := range strings.Split(keywords, ",") {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			terms = append(terms, k)
		}
	}
	if len(terms) == 0 {
		return items
	}

	out := make([]models.TrendingItem, 0, len(items))
	for _, item := range items {
		haystack := strings.ToLower(item.Title + " " + item.Artist + " " + strings.Join(item.Genres, " "))
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
