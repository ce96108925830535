package utils

import (
	"os"
	"strconv"
	"time"
)

// Config is the full environment surface. Every knob has a workable
// default except the Last.fm key: without it the scrobbling adapter is
// disabled and the run proceeds on the two public feeds.
type Config struct {
	Port int
	Mode string // gin mode: debug/release

	// feeds
	LastfmAPIKey string // empty disables the lastfm adapter
	FeedCountry  string // apple feed country code
	FeedLimit    int    // per-feed fetch cap
	FetchTimeout time.Duration

	// scoring and bounds
	WeightLastfm float64
	WeightDeezer float64
	WeightApple  float64
	MergeCap     int
	ItemCap      int

	// persistence: Mongo when URI is set, local sqlite otherwise
	MongoURI string
	MongoDB  string

	// trigger auth + schedule
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
	CronSecret  string
	CronSpec    string // empty disables the in-process schedule
	Timezone    string // period boundaries, e.g. "UTC", "America/New_York"
}

func Load() Config {
	return Config{
		Port: envInt("TRENDHUB_PORT", 8080),
		Mode: envStr("TRENDHUB_GIN_MODE", "debug"),

		LastfmAPIKey: os.Getenv("TRENDHUB_LASTFM_API_KEY"),
		FeedCountry:  envStr("TRENDHUB_FEED_COUNTRY", "us"),
		FeedLimit:    envInt("TRENDHUB_FEED_LIMIT", 100),
		FetchTimeout: envDuration("TRENDHUB_FETCH_TIMEOUT", 15*time.Second),

		WeightLastfm: envFloat("TRENDHUB_WEIGHT_LASTFM", 1.0),
		WeightDeezer: envFloat("TRENDHUB_WEIGHT_DEEZER", 0.9),
		WeightApple:  envFloat("TRENDHUB_WEIGHT_APPLE", 0.8),
		MergeCap:     envInt("TRENDHUB_MERGE_CAP", 100),
		ItemCap:      envInt("TRENDHUB_ITEM_CAP", 50),

		MongoURI: os.Getenv("TRENDHUB_MONGO_URI"),
		MongoDB:  envStr("TRENDHUB_MONGO_DB", "trendhub"),

		JWTSecret:   envStr("TRENDHUB_JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:   envStr("TRENDHUB_JWT_ISSUER", "trendhub"),
		JWTDuration: envDuration("TRENDHUB_JWT_TTL", 24*time.Hour),
		CronSecret:  os.Getenv("TRENDHUB_CRON_SECRET"),
		CronSpec:    envStr("TRENDHUB_CRON_SPEC", "0 6 * * *"),
		Timezone:    envStr("TRENDHUB_TIMEZONE", "UTC"),
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
