package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendhub/pkg/models"
)

func TestLargestImage(t *testing.T) {
	assert.Equal(t, "l", largestImage([]string{"s", "m", "l"}))
	assert.Equal(t, "m", largestImage([]string{"s", "m", ""}))
	assert.Equal(t, "s", largestImage([]string{"s", "", ""}))
	assert.Equal(t, "", largestImage([]string{"", ""}))
	assert.Equal(t, "", largestImage(nil))
}

const lastfmPayload = `{
  "tracks": {
    "track": [
      {
        "name": "Blinding Lights",
        "playcount": "123456",
        "artist": {"name": "The Weeknd"},
        "image": [
          {"#text": "https://img/s.png", "size": "small"},
          {"#text": "https://img/l.png", "size": "large"},
          {"#text": "", "size": "extralarge"}
        ]
      },
      {
        "name": "Second",
        "playcount": "not-a-number",
        "artist": {"name": "Someone"},
        "image": []
      }
    ]
  }
}`

func TestLastfm_TopTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chart.gettoptracks", r.URL.Query().Get("method"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(lastfmPayload))
	}))
	defer srv.Close()

	f := NewLastfm("test-key", 50)
	f.BaseURL = srv.URL

	got, err := f.TopTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.SourceLastfm, got[0].Source)
	assert.Equal(t, "Blinding Lights", got[0].Title)
	assert.Equal(t, "The Weeknd", got[0].Artist)
	// empty extralarge slot is skipped, scan backward finds large
	assert.Equal(t, "https://img/l.png", got[0].CoverURL)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, int64(123456), got[0].RawScore)

	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, int64(0), got[1].RawScore)
}

func TestLastfm_NonSuccessStatusIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewLastfm("test-key", 50)
	f.BaseURL = srv.URL

	_, err := f.TopTracks(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLastfm_MalformedPayloadIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tracks": `))
	}))
	defer srv.Close()

	f := NewLastfm("test-key", 50)
	f.BaseURL = srv.URL

	_, err := f.TopTracks(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

const deezerPayload = `{
  "data": [
    {
      "title": "Track One",
      "artist": {"name": "Artist One"},
      "album": {
        "cover_small": "https://img/s.jpg",
        "cover_medium": "https://img/m.jpg",
        "cover_big": "https://img/b.jpg",
        "cover_xl": ""
      },
      "preview": "https://cdn/preview.mp3"
    }
  ]
}`

func TestDeezer_TopTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chart/0/tracks", r.URL.Path)
		_, _ = w.Write([]byte(deezerPayload))
	}))
	defer srv.Close()

	f := NewDeezer(50)
	f.BaseURL = srv.URL

	got, err := f.TopTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, models.SourceDeezer, got[0].Source)
	assert.Equal(t, "Track One", got[0].Title)
	assert.Equal(t, "Artist One", got[0].Artist)
	assert.Equal(t, "https://img/b.jpg", got[0].CoverURL)
	assert.Equal(t, "https://cdn/preview.mp3", got[0].PreviewURL)
	assert.Equal(t, 1, got[0].Rank)
}

func TestDeezer_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	f := NewDeezer(50)
	f.BaseURL = srv.URL

	got, err := f.TopTracks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

const applePayload = `{
  "feed": {
    "results": [
      {
        "name": "Hit Song",
        "artistName": "Big Artist",
        "artworkUrl100": "https://img/artwork.png",
        "genres": [
          {"name": "Pop"},
          {"name": ""},
          {"name": "Dance"}
        ]
      }
    ]
  }
}`

func TestAppleFeed_TopTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/us/music/most-played/50/songs.json", r.URL.Path)
		_, _ = w.Write([]byte(applePayload))
	}))
	defer srv.Close()

	f := NewAppleFeed("us", 50)
	f.BaseURL = srv.URL

	got, err := f.TopTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, models.SourceApple, got[0].Source)
	assert.Equal(t, "Hit Song", got[0].Title)
	assert.Equal(t, "Big Artist", got[0].Artist)
	assert.Equal(t, "https://img/artwork.png", got[0].CoverURL)
	assert.Equal(t, []string{"Pop", "Dance"}, got[0].Genres)
	assert.Equal(t, 1, got[0].Rank)
}

func TestAppleFeed_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewAppleFeed("us", 50)
	f.BaseURL = srv.URL

	_, err := f.TopTracks(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
