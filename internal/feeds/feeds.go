package feeds

import (
	"context"
	"errors"

	"trendhub/pkg/models"
)

// ErrUnavailable marks a recoverable fetch failure: the feed was
// unreachable, answered with a non-success status or sent a payload we
// could not parse. The pipeline logs it and continues with the
// remaining feeds.
var ErrUnavailable = errors.New("feed unavailable")

// Feed is implemented by each external chart source. Each feed fetches
// its own wire format and maps it into TrackObservation; the pipeline
// never sees source-specific JSON.
type Feed interface {
	Name() string
	TopTracks(ctx context.Context) ([]models.TrackObservation, error)
}

// largestImage picks the most representative cover from a
// size-ascending list of URLs: the last entry is usually the largest,
// so scan backward for the first non-empty one.
func largestImage(urls []string) string {
	for i := len(urls) - 1; i >= 0; i-- {
		if urls[i] != "" {
			return urls[i]
		}
	}
	return ""
}
