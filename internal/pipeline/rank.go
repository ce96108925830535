package pipeline

import (
	"sort"

	"trendhub/pkg/models"
)

// Rank sorts merged tracks descending by score and bounds the result.
// The sort is stable over Merge's insertion order, so two tracks with
// equal scores keep their relative first-seen order.
//
// mergeCap bounds how many merged tracks survive ranking at all;
// itemCap is the final output size handed to persistence. A cap of
// zero or less means unbounded.
func Rank(tracks []models.MergedTrack, mergeCap, itemCap int) []models.MergedTrack {
	ranked := make([]models.MergedTrack, len(tracks))
	copy(ranked, tracks)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if mergeCap > 0 && len(ranked) > mergeCap {
		ranked = ranked[:mergeCap]
	}
	if itemCap > 0 && len(ranked) > itemCap {
		ranked = ranked[:itemCap]
	}
	return ranked
}
