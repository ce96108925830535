package pipeline

import "trendhub/pkg/models"

// Merge folds observations, in the given order, into one MergedTrack
// per canonical identity key. The returned slice preserves
// first-insertion order, which the ranker uses as the tie-break.
//
// Merge rules when a later observation hits an existing key:
//
// - Title/Artist: keep the first observation's display form.
// - Cover/Preview URL: first non-empty value wins, never overwritten.
// - Genres: set union, first-seen order.
// - Sources: appended once per feed, first-appearance order.
// - Score: accumulates, one Score() term per observation.
//
// The input order matters for the first-wins fields, so callers must
// concatenate adapter results in a fixed order.
func Merge(observations []models.TrackObservation, weights Weights) []models.MergedTrack {
	byKey := make(map[string]int, len(observations))
	out := make([]models.MergedTrack, 0, len(observations))

	for _, obs := range observations {
		key := NormalizeKey(obs.Title, obs.Artist)
		contribution := weights.Score(obs)

		if i, ok := byKey[key]; ok {
			mergeObservation(&out[i], obs, contribution)
			continue
		}

		byKey[key] = len(out)
		out = append(out, models.MergedTrack{
			Title:      obs.Title,
			Artist:     obs.Artist,
			CoverURL:   obs.CoverURL,
			PreviewURL: obs.PreviewURL,
			Genres:     mergeStringSlices(nil, obs.Genres),
			Sources:    []models.Source{obs.Source},
			Score:      contribution,
		})
	}
	return out
}

func mergeObservation(base *models.MergedTrack, obs models.TrackObservation, contribution float64) {
	base.Score += contribution

	if base.CoverURL == "" && obs.CoverURL != "" {
		base.CoverURL = obs.CoverURL
	}
	if base.PreviewURL == "" && obs.PreviewURL != "" {
		base.PreviewURL = obs.PreviewURL
	}

	base.Genres = mergeStringSlices(base.Genres, obs.Genres)

	base.Sources = appendSourceIfMissing(base.Sources, obs.Source)
}

func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}

func appendSourceIfMissing(slice []models.Source, v models.Source) []models.Source {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}

func mergeStringSlices(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	for _, v := range b {
		out = appendIfMissing(out, v)
	}
	return out
}
