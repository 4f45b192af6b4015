package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/bestbuy"
	"review_insights/internal/adapters/csvexport"
	"review_insights/internal/adapters/observability"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/insights"
	"review_insights/internal/sentiment"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

const usage = "usage: scraper <product_url> [<product_url> ...]"

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "scraper")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	// resolve every reference before touching the network
	ids := make([]string, 0, len(os.Args)-1)
	for _, ref := range os.Args[1:] {
		id, err := app.ExtractProductID(ref)
		if err != nil {
			log.Error().Err(err).Str("ref", ref).Msg("invalid product reference")
			os.Exit(1)
		}
		ids = append(ids, id)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.Serve(cfg.MetricsAddr)

	client, err := bestbuy.New(bestbuy.Options{
		BaseURL: cfg.APIBase,
		SiteURL: cfg.SiteBase,
		Proxy:   domain.ProxyConfig{HTTP: cfg.ProxyHTTP, HTTPS: cfg.ProxyHTTPS},
		RPS:     cfg.RPS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review client")
	}

	sinks := []domain.Sink{logSink{}, csvexport.New(cfg.OutputDir)}
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()
		log.Info().Msg("database connection ok, runs will be stored")
		sinks = append(sinks, mysqlrepo.New(db))
	}

	pipeline := app.NewPipeline(client, sentiment.NewScorer(), insights.NewAggregator(insights.DefaultVocabulary), sinks...)

	failed := false
	// one product at a time; runs share nothing but the read-only vocabulary and identity pool
	for _, id := range ids {
		fc, err := cfg.FetchConfig(id)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid run configuration")
		}
		log.Info().
			Str("product", id).
			Int("max", fc.MaxReviews).
			Str("sort", string(fc.Sort)).
			Dur("delay", fc.Delay).
			Msg("scrape starting")

		if _, err := pipeline.Run(ctx, fc); err != nil {
			log.Error().Err(err).Str("product", id).Msg("run output incomplete")
			failed = true
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failed {
		os.Exit(1)
	}
}
