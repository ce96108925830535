package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"trendhub/internal/admin"
	"trendhub/internal/auth"
	"trendhub/internal/feeds"
	"trendhub/internal/live"
	"trendhub/internal/pipeline"
	"trendhub/internal/store"
	"trendhub/internal/trending"
	"trendhub/pkg/database"
	"trendhub/pkg/models"
	"trendhub/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := utils.Load()

	log := logrus.New()

	st := openStore(cfg, log)
	defer st.Close(context.Background())

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	hub := live.NewHub()

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
		Notifier:     hub,
		Log:          log,
	}

	gin.SetMode(cfg.Mode)
	router := gin.Default()

	// avoid the "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"store_error": err.Error(),
				"ws_clients":  hub.Count(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"store":      "ok",
			"ws_clients": hub.Count(),
		})
	})

	router.GET("/ws", live.WSHandler(hub, log))

	// Trending (public read path)
	svc := trending.NewService(st)
	trending.NewHandler(svc).RegisterRoutes(router.Group("/trending"))

	// Admin trigger (authenticated)
	tokens := auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration,
	}
	adminGroup := router.Group("/admin")
	adminGroup.Use(auth.Middleware(tokens, cfg.CronSecret))
	admin.NewHandler(runner, log).RegisterRoutes(adminGroup)

	// daily aggregation schedule, in the period-boundary timezone
	var sched *cron.Cron
	if cfg.CronSpec != "" {
		sched = cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cron.DefaultLogger)))
		if _, err := sched.AddFunc(cfg.CronSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := runner.Run(ctx); err != nil && !errors.Is(err, pipeline.ErrNoData) {
				log.Errorf("scheduled run failed: %v", err)
			}
		}); err != nil {
			log.Fatalf("invalid cron spec %q: %v", cfg.CronSpec, err)
		}
		sched.Start()
		log.Infof("aggregation scheduled: %q (%s)", cfg.CronSpec, cfg.Timezone)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP API server listening on :%d", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Errorf("server error: %v", err)
	}

	log.Info("shutting down")
	if sched != nil {
		// let an in-flight scheduled run finish
		<-sched.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown error: %v", err)
	}
	log.Info("server stopped")
}

// buildFeeds assembles the adapters in their fixed concatenation
// order. A missing Last.fm key disables that adapter; the two public
// feeds need no credentials.
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

func openStore(cfg utils.Config, log *logrus.Logger) store.Store {
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		st, err := store.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("open mongo: %v", err)
		}
		log.Infof("connected to mongo db %q", cfg.MongoDB)
		return st
	}

	db := database.MustOpen(database.DefaultConfig())
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}
	log.Info("using local sqlite store")
	return store.NewSQLite(db)
}
