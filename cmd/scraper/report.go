package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"review_insights/internal/domain"
)

// logSink prints the run summary the way an operator reads it at the end of a scrape.
type logSink struct{}

func (logSink) Publish(ctx context.Context, rep domain.Report) error {
	ev := log.Info()
	if rep.Stop == domain.StopFetchFailed {
		ev = log.Warn().Str("fetch_error", rep.FetchError)
	}
	ev.
		Str("product", rep.ProductID).
		Str("stop", string(rep.Stop)).
		Int("pages", rep.Pages).
		Int("total_reviews", rep.Insights.TotalReviews).
		Dur("took", rep.FinishedAt.Sub(rep.StartedAt)).
		Msg("scrape complete")

	d := rep.Insights.Distribution
	log.Info().
		Int(string(domain.Positive), d.Positive).
		Int(string(domain.Negative), d.Negative).
		Int(string(domain.Neutral), d.Neutral).
		Msg("sentiment distribution")

	log.Info().
		Array("positive_drivers", drivers(rep.Insights.PositiveDrivers)).
		Array("negative_drivers", drivers(rep.Insights.NegativeDrivers)).
		Msg("business insights")
	return nil
}

type drivers []domain.AspectCount

func (ds drivers) MarshalZerologArray(a *zerolog.Array) {
	for _, d := range ds {
		a.Dict(zerolog.Dict().Str("aspect", d.Aspect).Int("count", d.Count))
	}
}
