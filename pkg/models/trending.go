package models

import "time"

// Source identifies which external feed an observation came from.
type Source string

const (
	SourceLastfm Source = "lastfm"
	SourceDeezer Source = "deezer"
	SourceApple  Source = "apple"
)

// TrackObservation is one track's appearance in one source's chart,
// already mapped out of the source's own response shape.
//
// All feed adapters produce this structure first; the pipeline never
// sees source-specific JSON.
type TrackObservation struct {
	Source     Source   `json:"source"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	CoverURL   string   `json:"cover_url,omitempty"`
	PreviewURL string   `json:"preview_url,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Rank       int      `json:"rank"`                // 1-based chart position
	RawScore   int64    `json:"raw_score,omitempty"` // source-native metric (e.g. playcount), informational only
}

// MergedTrack is the aggregation unit: one entry per distinct
// normalized (title, artist) key, accumulated across sources.
//
// Display fields keep the casing/punctuation of the first observation
// seen for the key; later observations only fill gaps and add score.
type MergedTrack struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	CoverURL   string   `json:"cover_url,omitempty"`
	PreviewURL string   `json:"preview_url,omitempty"`
	Genres     []string `json:"genres"`
	Sources    []Source `json:"sources"` // first-appearance order, no duplicates
	Score      float64  `json:"score"`
}

// TrendingItem is a persisted copy of a MergedTrack included in a
// snapshot. Immutable after creation; old items from prior runs are
// left for an external retention sweep.
type TrendingItem struct {
	ID         string    `json:"id" bson:"_id"`
	Type       string    `json:"type" bson:"type"` // fixed "music"
	Title      string    `json:"title" bson:"title"`
	Artist     string    `json:"artist" bson:"artist"`
	CoverURL   string    `json:"cover_url,omitempty" bson:"coverUrl,omitempty"`
	PreviewURL string    `json:"preview_url,omitempty" bson:"previewUrl,omitempty"`
	Genres     []string  `json:"genres" bson:"genres"`
	Sources    []Source  `json:"sources" bson:"sources"`
	Score      float64   `json:"score" bson:"score"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
}

// TrendingSnapshot is one persisted result of a full pipeline run.
// TopMediaIDs is the authoritative rank order for readers. Snapshots
// are append-only; the newest GeneratedAt wins at read time.
type TrendingSnapshot struct {
	ID          string    `json:"id" bson:"_id"`
	Type        string    `json:"type" bson:"type"`     // fixed "music"
	Window      string    `json:"window" bson:"window"` // "day"
	PeriodStart time.Time `json:"period_start" bson:"periodStart"`
	TopMediaIDs []string  `json:"top_media_ids" bson:"topMediaIds"`
	GeneratedAt time.Time `json:"generated_at" bson:"generatedAt"`
	TotalItems  int       `json:"total_items" bson:"totalItems"`
}

// TrendingType is the domain tag this service aggregates. Kept as a
// field (not hardcoded in queries) so other media types can reuse the
// same collections later.
const TrendingType = "music"

// TrendingWindow is the aggregation window written on every snapshot.
const TrendingWindow = "day"
