package domain

import "context"

// PageFetcher returns the raw reviews of one listing page. An empty slice means the source is exhausted.
type PageFetcher interface {
	FetchPage(ctx context.Context, req PageRequest) ([]RawReview, error)
}

type SentimentScorer interface {
	Analyze(text string) (Sentiment, float64)
}

// Sink receives a finished run. Sinks must not modify the report.
type Sink interface {
	Publish(ctx context.Context, rep Report) error
}

type RunStore interface {
	// Write path
	SaveRun(ctx context.Context, rep Report) (int64, error)

	// Read paths
	LatestRun(ctx context.Context, productID string) (Report, error)
	ListReviews(ctx context.Context, runID int64, q ReviewsQuery) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, keys ...string) error
	// Incr atomically bumps an integer counter, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
}

type ReviewsQuery struct {
	Limit     int
	Sentiment Sentiment // empty = all
}

type ReviewsPage struct {
	RunID int64    `json:"run_id"`
	Items []Review `json:"items"`
}
