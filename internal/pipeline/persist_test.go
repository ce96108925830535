package pipeline

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendhub/internal/store/storetest"
	"trendhub/pkg/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func rankedTracks(n int) []models.MergedTrack {
	out := make([]models.MergedTrack, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.MergedTrack{
			Title:   fmt.Sprintf("Track %03d", i),
			Artist:  fmt.Sprintf("Artist %03d", i),
			Sources: []models.Source{models.SourceLastfm},
			Score:   float64(n - i),
		})
	}
	return out
}

func TestSaveRun_UsesAtomicBatchWhenAvailable(t *testing.T) {
	st := storetest.NewBatch()
	c := &Coordinator{Store: st, Log: testLogger()}

	snap, err := c.SaveRun(context.Background(), rankedTracks(5), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, st.BatchCalls)
	assert.Len(t, snap.TopMediaIDs, 5)
	assert.Equal(t, 5, snap.TotalItems)
	assert.Len(t, st.Items, 5)
	require.Len(t, st.Snapshots, 1)

	// TopMediaIDs carries rank order
	for i, id := range snap.TopMediaIDs {
		assert.Equal(t, fmt.Sprintf("Track %03d", i), st.Items[id].Title)
	}
}

func TestSaveRun_FallsBackWhenBatchFails(t *testing.T) {
	st := storetest.NewBatch()
	st.FailBatch = true
	c := &Coordinator{Store: st, Log: testLogger()}

	snap, err := c.SaveRun(context.Background(), rankedTracks(3), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, st.BatchCalls)
	assert.Len(t, snap.TopMediaIDs, 3)
	assert.Len(t, st.Items, 3)
	require.Len(t, st.Snapshots, 1)
}

func TestSaveRun_ItemFailureIsIsolated(t *testing.T) {
	st := storetest.New()
	st.FailTitles["Track 007"] = true
	c := &Coordinator{Store: st, Log: testLogger()}

	snap, err := c.SaveRun(context.Background(), rankedTracks(50), time.Now().UTC())
	require.NoError(t, err)

	assert.Len(t, snap.TopMediaIDs, 49)
	assert.Equal(t, 49, snap.TotalItems)

	// every referenced id resolves: no dangling references
	for _, id := range snap.TopMediaIDs {
		item, ok := st.Items[id]
		require.True(t, ok, "snapshot references missing item %s", id)
		assert.NotEqual(t, "Track 007", item.Title)
	}

	// rank order survives the dropped slot
	prev := -1
	for _, id := range snap.TopMediaIDs {
		var n int
		fmt.Sscanf(st.Items[id].Title, "Track %03d", &n)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestSaveRun_SnapshotFailureIsFatal(t *testing.T) {
	st := storetest.New()
	st.FailSnapshot = true
	c := &Coordinator{Store: st, Log: testLogger()}

	_, err := c.SaveRun(context.Background(), rankedTracks(3), time.Now().UTC())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSnapshotWrite)
}

func TestSaveRun_EmptyRunStillWritesSnapshot(t *testing.T) {
	st := storetest.New()
	c := &Coordinator{Store: st, Log: testLogger()}

	snap, err := c.SaveRun(context.Background(), nil, time.Now().UTC())
	require.NoError(t, err)

	assert.Empty(t, snap.TopMediaIDs)
	assert.Equal(t, 0, snap.TotalItems)
	assert.Len(t, st.Snapshots, 1)
}
