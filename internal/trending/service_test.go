package trending

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendhub/internal/store/storetest"
	"trendhub/pkg/models"
)

func seed(st *storetest.Store, ids []string, items ...models.TrendingItem) {
	for _, item := range items {
		st.Items[item.ID] = item
	}
	st.Snapshots = append(st.Snapshots, models.TrendingSnapshot{
		ID:          "snap-1",
		Type:        models.TrendingType,
		Window:      models.TrendingWindow,
		TopMediaIDs: ids,
		GeneratedAt: time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
		TotalItems:  len(ids),
	})
}

func item(id, title, artist string, genres ...string) models.TrendingItem {
	return models.TrendingItem{
		ID:     id,
		Type:   models.TrendingType,
		Title:  title,
		Artist: artist,
		Genres: genres,
	}
}

func TestGetTrending_NoSnapshot(t *testing.T) {
	svc := NewService(storetest.New())

	res, err := svc.GetTrending(context.Background(), 20, "")
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.Equal(t, "No trending data available", res.Message)
	assert.Nil(t, res.GeneratedAt)
}

func TestGetTrending_RestoresSnapshotOrder(t *testing.T) {
	st := storetest.New()
	// snapshot order c, a, b; the fake store returns records in
	// arbitrary map order
	seed(st, []string{"c", "a", "b"},
		item("a", "Alpha", "A"),
		item("b", "Beta", "B"),
		item("c", "Gamma", "C"),
	)
	svc := NewService(st)

	res, err := svc.GetTrending(context.Background(), 20, "")
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	assert.Equal(t, "c", res.Items[0].ID)
	assert.Equal(t, "a", res.Items[1].ID)
	assert.Equal(t, "b", res.Items[2].ID)
	assert.Equal(t, 3, res.Total)
	require.NotNil(t, res.GeneratedAt)
}

func TestGetTrending_DropsUnresolvableIDs(t *testing.T) {
	st := storetest.New()
	// "ghost" was never written (partial persistence failure)
	seed(st, []string{"a", "ghost", "b"},
		item("a", "Alpha", "A"),
		item("b", "Beta", "B"),
	)
	svc := NewService(st)

	res, err := svc.GetTrending(context.Background(), 20, "")
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "a", res.Items[0].ID)
	assert.Equal(t, "b", res.Items[1].ID)
}

func TestGetTrending_KeywordFilter(t *testing.T) {
	st := storetest.New()
	seed(st, []string{"a", "b", "c"},
		item("a", "Blinding Lights", "X"),
		item("b", "Y", "Z"),
		item("c", "Other", "blindside artist"),
	)
	svc := NewService(st)

	res, err := svc.GetTrending(context.Background(), 20, "blinding")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "a", res.Items[0].ID)
}

func TestGetTrending_KeywordMatchesGenresAndKeepsOrder(t *testing.T) {
	st := storetest.New()
	seed(st, []string{"a", "b", "c"},
		item("a", "First", "X", "Rock"),
		item("b", "Second", "Y", "Pop"),
		item("c", "Third", "Z", "Indie Pop"),
	)
	svc := NewService(st)

	res, err := svc.GetTrending(context.Background(), 20, "POP, rock")
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	// filter never reorders
	assert.Equal(t, "a", res.Items[0].ID)
	assert.Equal(t, "b", res.Items[1].ID)
	assert.Equal(t, "c", res.Items[2].ID)
}

func TestGetTrending_NoKeywordMatches(t *testing.T) {
	st := storetest.New()
	seed(st, []string{"a"}, item("a", "Song", "Artist"))
	svc := NewService(st)

	res, err := svc.GetTrending(context.Background(), 20, "zzz-no-match")
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Message)
	require.NotNil(t, res.GeneratedAt)
}

func TestGetTrending_TruncatesToLimit(t *testing.T) {
	st := storetest.New()
	seed(st, []string{"a", "b", "c"},
		item("a", "Alpha", "A"),
		item("b", "Beta", "B"),
		item("c", "Gamma", "C"),
	)
	svc := NewService(st)

	res, err := svc.GetTrending(context.Background(), 2, "")
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "a", res.Items[0].ID)
	assert.Equal(t, "b", res.Items[1].ID)
	assert.Equal(t, 2, res.Total)
}

func TestGetTrending_PicksNewestSnapshot(t *testing.T) {
	st := storetest.New()
	st.Items["old"] = item("old", "Old Song", "A")
	st.Items["new"] = item("new", "New Song", "B")
	st.Snapshots = append(st.Snapshots,
		models.TrendingSnapshot{
			ID: "snap-old", Type: models.TrendingType,
			TopMediaIDs: []string{"old"},
			GeneratedAt: time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC),
		},
		models.TrendingSnapshot{
			ID: "snap-new", Type: models.TrendingType,
			TopMediaIDs: []string{"new"},
			GeneratedAt: time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
		},
	)
	svc := NewService(st)

	res, err := svc.GetTrending(context.Background(), 20, "")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "new", res.Items[0].ID)
}
