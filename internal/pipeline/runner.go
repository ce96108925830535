package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"trendhub/internal/feeds"
	"trendhub/pkg/models"
)

// ErrNoData is the run-level "nothing to aggregate" outcome: every
// feed came back empty. Reported distinctly from a crash so operators
// can tell the two apart.
var ErrNoData = errors.New("pipeline: no observations from any source")

// Notifier is told about a snapshot once it is fully committed.
type Notifier interface {
	SnapshotPublished(snap *models.TrendingSnapshot)
}

// Runner executes one full aggregation: fetch all feeds concurrently,
// merge, rank, persist, announce. One Runner is shared by the cron
// schedule and the admin trigger; each Run is an independent unit of
// work with no cross-run coordination (overlapping runs just produce
// two snapshots and the reader picks the newest).
type Runner struct {
	Feeds        []feeds.Feed
	Weights      Weights
	MergeCap     int
	ItemCap      int
	FetchTimeout time.Duration
	Location     *time.Location
	Coordinator  *Coordinator
	Notifier     Notifier
	Log          *logrus.Logger
}

// Run fetches every feed in parallel into its own result slot and
// waits for all of them before merging, so the merge map only ever
// sees single-threaded access. A feed that fails or times out
// contributes zero observations; partial data beats no data.
func (r *Runner) Run(ctx context.Context) (*models.TrendingSnapshot, error) {
	results := make([][]models.TrackObservation, len(r.Feeds))

	var wg sync.WaitGroup
	for i, f := range r.Feeds {
		wg.Add(1)
		go func(i int, f feeds.Feed) {
			defer wg.Done()

			fctx := ctx
			if r.FetchTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(ctx, r.FetchTimeout)
				defer cancel()
			}

			obs, err := f.TopTracks(fctx)
			if err != nil {
				// recoverable: run continues without this feed
				r.Log.Warnf("[pipeline] source %s unavailable: %v", f.Name(), err)
				return
			}
			r.Log.Infof("[pipeline] fetched %d tracks from %s", len(obs), f.Name())
			results[i] = obs
		}(i, f)
	}
	wg.Wait()

	// fixed concatenation order (slot order) keeps the merge
	// deterministic for identical inputs
	var all []models.TrackObservation
	for _, obs := range results {
		all = append(all, obs...)
	}
	if len(all) == 0 {
		return nil, ErrNoData
	}

	merged := Merge(all, r.Weights)
	ranked := Rank(merged, r.MergeCap, r.ItemCap)
	r.Log.Infof("[pipeline] merged %d observations into %d tracks, keeping %d", len(all), len(merged), len(ranked))

	snap, err := r.Coordinator.SaveRun(ctx, ranked, r.periodStart())
	if err != nil {
		return nil, err
	}
	r.Log.Infof("[pipeline] snapshot %s committed with %d items", snap.ID, snap.TotalItems)

	if r.Notifier != nil {
		r.Notifier.SnapshotPublished(snap)
	}
	return snap, nil
}

// periodStart is midnight of the run day in the configured timezone,
// expressed in UTC.
func (r *Runner) periodStart() time.Time {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return midnight.UTC()
}
