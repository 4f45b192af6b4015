package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
	"review_insights/internal/insights"
)

// Pipeline collects, scores and summarises one product and hands the report to its sinks.
type Pipeline struct {
	collector  *Collector
	scorer     domain.SentimentScorer
	aggregator *insights.Aggregator
	sinks      []domain.Sink
}

func NewPipeline(f domain.PageFetcher, s domain.SentimentScorer, a *insights.Aggregator, sinks ...domain.Sink) *Pipeline {
	return &Pipeline{collector: NewCollector(f), scorer: s, aggregator: a, sinks: sinks}
}

// Run always returns the report it built, even when a sink failed; sink errors are joined.
// A fetch failure is not an error here: the report carries the partial reviews and FetchError.
func (p *Pipeline) Run(ctx context.Context, cfg domain.FetchConfig) (domain.Report, error) {
	started := time.Now().UTC()
	res, err := p.collector.Collect(ctx, cfg)
	if err != nil {
		return domain.Report{}, err
	}

	Annotate(res.Reviews, p.scorer)

	rep := domain.Report{
		ProductID:  cfg.ProductID,
		Sort:       cfg.Sort,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Pages:      res.Pages,
		Stop:       res.Stop,
		Reviews:    res.Reviews,
		Insights:   p.aggregator.Summarize(res.Reviews),
	}
	if res.Err != nil {
		rep.FetchError = res.Err.Error()
	}
	observability.ObserveRun(string(rep.Stop))

	log.Info().
		Str("product", rep.ProductID).
		Str("stop", string(rep.Stop)).
		Int("pages", rep.Pages).
		Int("reviews", rep.Insights.TotalReviews).
		Msg("run finished")

	var errs []error
	for _, s := range p.sinks {
		if err := s.Publish(ctx, rep); err != nil {
			errs = append(errs, fmt.Errorf("publish %T: %w", s, err))
		}
	}
	return rep, errors.Join(errs...)
}

// Annotate attaches sentiment to every review in place.
func Annotate(rs []domain.Review, s domain.SentimentScorer) {
	for i := range rs {
		rs[i].Sentiment, rs[i].SentimentScore = s.Analyze(rs[i].Text)
		observability.ObserveSentiment(string(rs[i].Sentiment))
	}
}
