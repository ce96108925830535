package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"trendhub/internal/feeds"
	"trendhub/internal/pipeline"
	"trendhub/internal/store"
	"trendhub/pkg/database"
	"trendhub/pkg/models"
	"trendhub/pkg/utils"
)

// One-shot aggregation run, for manual backfills and external cron.
func main() {
	_ = godotenv.Load()
	cfg := utils.Load()

	log := logrus.New()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st := openStore(ctx, cfg, log)
	defer st.Close(context.Background())

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	runner := &pipeline.Runner{
		Feeds: buildFeeds(cfg, log),
		Weights: pipeline.Weights{
			models.SourceLastfm: cfg.WeightLastfm,
			models.SourceDeezer: cfg.WeightDeezer,
			models.SourceApple:  cfg.WeightApple,
		},
		MergeCap:     cfg.MergeCap,
		ItemCap:      cfg.ItemCap,
		FetchTimeout: cfg.FetchTimeout,
		Location:     loc,
		Coordinator:  &pipeline.Coordinator{Store: st, Log: log},
		Log:          log,
	}

	snap, err := runner.Run(ctx)
	if errors.Is(err, pipeline.ErrNoData) {
		log.Warn("nothing to aggregate: all feeds returned zero tracks")
		return
	}
	if err != nil {
		log.Fatalf("aggregation failed: %v", err)
	}

	log.Infof("snapshot %s committed: %d items", snap.ID, snap.TotalItems)
}

func buildFeeds(cfg utils.Config, log *logrus.Logger) []feeds.Feed {
	var fs []feeds.Feed
	if cfg.LastfmAPIKey != "" {
		fs = append(fs, feeds.NewLastfm(cfg.LastfmAPIKey, cfg.FeedLimit))
	} else {
		log.Warn("[feeds] no lastfm api key, scrobbling chart disabled")
	}
	fs = append(fs,
		feeds.NewDeezer(cfg.FeedLimit),
		feeds.NewAppleFeed(cfg.FeedCountry, cfg.FeedLimit),
	)
	return fs
}

func openStore(ctx context.Context, cfg utils.Config, log *logrus.Logger) store.Store {
	if cfg.MongoURI != "" {
		st, err := store.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("open mongo: %v", err)
		}
		return st
	}

	db := database.MustOpen(database.DefaultConfig())
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}
	return store.NewSQLite(db)
}
