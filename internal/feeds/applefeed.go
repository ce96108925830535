package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trendhub/pkg/models"
)

// Apple marketing-tools feed base. This is the JSON variant of the
// "top songs" marketing feed; the older XML RSS shape is not used.
const appleBase = "https://rss.applemarketingtools.com"

// AppleFeed fetches the most-played songs marketing feed for one
// country. The feed carries genre names, which the other two sources
// do not provide.
type AppleFeed struct {
	BaseURL string
	Country string
	Limit   int
	Client  *http.Client
}

func NewAppleFeed(country string, limit int) *AppleFeed {
	return &AppleFeed{
		BaseURL: appleBase,
		Country: country,
		Limit:   limit,
		Client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (f *AppleFeed) Name() string { return "apple" }

type appleFeedResponse struct {
	Feed struct {
		Results []struct {
			Name       string `json:"name"`
			ArtistName string `json:"artistName"`
			ArtworkURL string `json:"artworkUrl100"`
			Genres     []struct {
				Name string `json:"name"`
			} `json:"genres"`
		} `json:"results"`
	} `json:"feed"`
}

func (f *AppleFeed) TopTracks(ctx context.Context) ([]models.TrackObservation, error) {
	u := fmt.Sprintf("%s/api/v2/%s/music/most-played/%d/songs.json", f.BaseURL, f.Country, f.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("apple: build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: apple: do request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: apple: status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw appleFeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: apple: decode json: %v", ErrUnavailable, err)
	}

	out := make([]models.TrackObservation, 0, len(raw.Feed.Results))
	for i, t := range raw.Feed.Results {
		genres := make([]string, 0, len(t.Genres))
		for _, g := range t.Genres {
			if g.Name != "" {
				genres = append(genres, g.Name)
			}
		}

		out = append(out, models.TrackObservation{
			Source:   models.SourceApple,
			Title:    t.Name,
			Artist:   t.ArtistName,
			CoverURL: t.ArtworkURL,
			Genres:   genres,
			Rank:     i + 1,
		})
	}
	return out, nil
}
