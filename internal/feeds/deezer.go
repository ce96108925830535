package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"trendhub/pkg/models"
)

// Deezer chart API base (public, no key)
const deezerBase = "https://api.deezer.com"

// Deezer fetches the global streaming chart (/chart/0/tracks).
type Deezer struct {
	BaseURL string
	Limit   int
	Client  *http.Client
}

func NewDeezer(limit int) *Deezer {
	return &Deezer{
		BaseURL: deezerBase,
		Limit:   limit,
		Client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (f *Deezer) Name() string { return "deezer" }

type deezerResponse struct {
	Data []struct {
		Title  string `json:"title"`
		Artist struct {
			Name string `json:"name"`
		} `json:"artist"`
		Album struct {
			CoverSmall  string `json:"cover_small"`
			CoverMedium string `json:"cover_medium"`
			CoverBig    string `json:"cover_big"`
			CoverXL     string `json:"cover_xl"`
		} `json:"album"`
		Preview string `json:"preview"`
	} `json:"data"`
}

func (f *Deezer) TopTracks(ctx context.Context) ([]models.TrackObservation, error) {
	u := f.BaseURL + "/chart/0/tracks?limit=" + strconv.Itoa(f.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("deezer: build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: deezer: do request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: deezer: status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw deezerResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: deezer: decode json: %v", ErrUnavailable, err)
	}

	out := make([]models.TrackObservation, 0, len(raw.Data))
	for i, t := range raw.Data {
		out = append(out, models.TrackObservation{
			Source: models.SourceDeezer,
			Title:  t.Title,
			Artist: t.Artist.Name,
			CoverURL: largestImage([]string{
				t.Album.CoverSmall,
				t.Album.CoverMedium,
				t.Album.CoverBig,
				t.Album.CoverXL,
			}),
			PreviewURL: t.Preview,
			Rank:       i + 1,
		})
	}
	return out, nil
}
