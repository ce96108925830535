package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendhub/internal/feeds"
	"trendhub/internal/store/storetest"
	"trendhub/pkg/models"
)

type stubFeed struct {
	name string
	obs  []models.TrackObservation
	err  error
}

func (s stubFeed) Name() string { return s.name }

func (s stubFeed) TopTracks(context.Context) ([]models.TrackObservation, error) {
	return s.obs, s.err
}

type stubNotifier struct {
	published []*models.TrendingSnapshot
}

func (n *stubNotifier) SnapshotPublished(snap *models.TrendingSnapshot) {
	n.published = append(n.published, snap)
}

func newTestRunner(st *storetest.Store, fs ...feeds.Feed) *Runner {
	return &Runner{
		Feeds:       fs,
		Weights:     DefaultWeights(),
		MergeCap:    100,
		ItemCap:     50,
		Location:    time.UTC,
		Coordinator: &Coordinator{Store: st, Log: testLogger()},
		Log:         testLogger(),
	}
}

func TestRun_MergesAcrossFeeds(t *testing.T) {
	st := storetest.New()
	r := newTestRunner(st,
		stubFeed{name: "lastfm", obs: []models.TrackObservation{
			obs(models.SourceLastfm, "Shared Song", "Artist", 1),
			obs(models.SourceLastfm, "Lastfm Only", "Artist", 2),
		}},
		stubFeed{name: "deezer", obs: []models.TrackObservation{
			obs(models.SourceDeezer, "shared song", "artist", 1),
		}},
	)

	snap, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TotalItems)
	require.Len(t, snap.TopMediaIDs, 2)

	// the cross-feed track outranks the single-feed one
	top := st.Items[snap.TopMediaIDs[0]]
	assert.Equal(t, "Shared Song", top.Title)
	assert.Equal(t, []models.Source{models.SourceLastfm, models.SourceDeezer}, top.Sources)
}

func TestRun_FailedFeedIsRecoverable(t *testing.T) {
	st := storetest.New()
	r := newTestRunner(st,
		stubFeed{name: "lastfm", err: feeds.ErrUnavailable},
		stubFeed{name: "deezer", obs: []models.TrackObservation{
			obs(models.SourceDeezer, "Still Here", "Artist", 1),
		}},
	)

	snap, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalItems)
}

func TestRun_AllFeedsEmptyIsNoData(t *testing.T) {
	st := storetest.New()
	r := newTestRunner(st,
		stubFeed{name: "lastfm", err: feeds.ErrUnavailable},
		stubFeed{name: "deezer"},
	)

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, st.Snapshots, "no snapshot for a no-data run")
}

func TestRun_NotifierToldAfterCommit(t *testing.T) {
	st := storetest.New()
	n := &stubNotifier{}
	r := newTestRunner(st, stubFeed{name: "deezer", obs: []models.TrackObservation{
		obs(models.SourceDeezer, "Song", "Artist", 1),
	}})
	r.Notifier = n

	snap, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, n.published, 1)
	assert.Equal(t, snap.ID, n.published[0].ID)
}

func TestRun_SnapshotFailurePropagates(t *testing.T) {
	st := storetest.New()
	st.FailSnapshot = true
	n := &stubNotifier{}
	r := newTestRunner(st, stubFeed{name: "deezer", obs: []models.TrackObservation{
		obs(models.SourceDeezer, "Song", "Artist", 1),
	}})
	r.Notifier = n

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrSnapshotWrite)
	assert.Empty(t, n.published)
}
