package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trendhub/pkg/models"
)

// Last.fm chart API base (public, key required)
const lastfmBase = "https://ws.audioscrobbler.com/2.0/"

// Lastfm fetches the global top-tracks chart from the Last.fm
// scrobbling API (chart.gettoptracks).
type Lastfm struct {
	BaseURL string
	APIKey  string
	Limit   int
	Client  *http.Client
}

func NewLastfm(apiKey string, limit int) *Lastfm {
	return &Lastfm{
		BaseURL: lastfmBase,
		APIKey:  apiKey,
		Limit:   limit,
		Client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (f *Lastfm) Name() string { return "lastfm" }

type lastfmResponse struct {
	Tracks struct {
		Track []struct {
			Name      string `json:"name"`
			Playcount string `json:"playcount"`
			Artist    struct {
				Name string `json:"name"`
			} `json:"artist"`
			// image list is size-ascending: small..extralarge
			Image []struct {
				URL  string `json:"#text"`
				Size string `json:"size"`
			} `json:"image"`
		} `json:"track"`
	} `json:"tracks"`
}

func (f *Lastfm) TopTracks(ctx context.Context) ([]models.TrackObservation, error) {
	q := url.Values{}
	q.Set("method", "chart.gettoptracks")
	q.Set("api_key", f.APIKey)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(f.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("lastfm: build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: lastfm: do request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: lastfm: status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw lastfmResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: lastfm: decode json: %v", ErrUnavailable, err)
	}

	out := make([]models.TrackObservation, 0, len(raw.Tracks.Track))
	for i, t := range raw.Tracks.Track {
		urls := make([]string, 0, len(t.Image))
		for _, img := range t.Image {
			urls = append(urls, strings.TrimSpace(img.URL))
		}

		out = append(out, models.TrackObservation{
			Source:   models.SourceLastfm,
			Title:    t.Name,
			Artist:   t.Artist.Name,
			CoverURL: largestImage(urls),
			Rank:     i + 1,
			RawScore: parseInt64OrZero(t.Playcount),
		})
	}
	return out, nil
}

func parseInt64OrZero(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
