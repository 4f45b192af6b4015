package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/bestbuy"
	server "review_insights/internal/adapters/http_server"
	"review_insights/internal/adapters/observability"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/insights"
	"review_insights/internal/sentiment"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	if cfg.MySQLDSN == "" {
		log.Fatal().Msg("MYSQL_DSN is required")
	}
	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, reads will hit the database")
	}
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	client, err := bestbuy.New(bestbuy.Options{
		BaseURL: cfg.APIBase,
		SiteURL: cfg.SiteBase,
		Proxy:   domain.ProxyConfig{HTTP: cfg.ProxyHTTP, HTTPS: cfg.ProxyHTTPS},
		RPS:     cfg.RPS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review client")
	}
	pipeline := app.NewPipeline(client, sentiment.NewScorer(), insights.NewAggregator(insights.DefaultVocabulary), repo)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{
		Q:         q,
		S:         app.NewScrapeService(pipeline, q),
		RunConfig: cfg.FetchConfig,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
