package pipeline

import "trendhub/pkg/models"

// Weights maps each feed to its trust weight. The weight dominates the
// blended score; the rank term only orders tracks within a feed.
type Weights map[models.Source]float64

// DefaultWeights reflects relative signal quality of the feeds: the
// scrobbling chart is the primary signal, the streaming chart next,
// the marketing feed lowest.
func DefaultWeights() Weights {
	return Weights{
		models.SourceLastfm: 1.0,
		models.SourceDeezer: 0.9,
		models.SourceApple:  0.8,
	}
}

// Score computes one observation's contribution to its track's blended
// score: weight(source) + 1/(rank+1). A higher chart position always
// beats a lower one from the same feed, and the rank term approaches
// but never reaches the flat source weight.
func (w Weights) Score(obs models.TrackObservation) float64 {
	return w[obs.Source] + 1.0/float64(obs.Rank+1)
}
