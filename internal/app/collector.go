package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
)

// CollectResult is the outcome of one pagination walk. Reviews are in API order and
// never exceed the configured target.
type CollectResult struct {
	Reviews  []domain.Review
	Pages    int // non-empty pages consumed
	Requests int // page requests issued
	Stop     domain.StopReason
	Err      error // terminal fetch failure; Reviews still holds everything gathered before it
}

// Collector walks a product's review listing one page at a time.
type Collector struct {
	pages domain.PageFetcher
}

func NewCollector(f domain.PageFetcher) *Collector {
	return &Collector{pages: f}
}

// Collect fetches pages starting at 1 until the target count is reached, a page comes back
// empty, or the fetcher reports a terminal failure. It sleeps cfg.Delay between pages.
// Only an invalid cfg is returned as an error; fetch failures end up in CollectResult.Err.
func (c *Collector) Collect(ctx context.Context, cfg domain.FetchConfig) (CollectResult, error) {
	if err := cfg.Validate(); err != nil {
		return CollectResult{}, err
	}

	lg := log.With().Str("product", cfg.ProductID).Str("sort", string(cfg.Sort)).Logger()
	res := CollectResult{Reviews: make([]domain.Review, 0, min(cfg.MaxReviews, cfg.PageSize))}

	for page := 1; ; page++ {
		res.Requests++
		raws, err := c.pages.FetchPage(ctx, domain.PageRequest{
			ProductID: cfg.ProductID,
			Page:      page,
			PageSize:  cfg.PageSize,
			Sort:      cfg.Sort,
			Proxy:     cfg.Proxy,
		})
		if err != nil {
			res.Err = err
			res.Stop = domain.StopFetchFailed
			if ctx.Err() != nil {
				res.Stop = domain.StopCanceled
			}
			lg.Warn().Err(err).
				Int("page", page).
				Int("total", len(res.Reviews)).
				Msg("page fetch failed, keeping partial results")
			return res, nil
		}
		if len(raws) == 0 {
			res.Stop = domain.StopSourceExhausted
			lg.Info().Int("page", page).Int("total", len(res.Reviews)).Msg("no more reviews")
			return res, nil
		}

		res.Pages++
		observability.ObservePage()
		for _, raw := range raws {
			res.Reviews = append(res.Reviews, NormalizeReview(raw))
			if len(res.Reviews) >= cfg.MaxReviews {
				break // rest of the page is discarded
			}
		}
		lg.Info().
			Int("page", page).
			Int("page_reviews", len(raws)).
			Int("total", len(res.Reviews)).
			Msg("fetched page")

		if len(res.Reviews) >= cfg.MaxReviews {
			res.Stop = domain.StopTargetReached
			return res, nil
		}
		if !shared.SleepCtx(ctx, cfg.Delay) {
			res.Stop = domain.StopCanceled
			res.Err = ctx.Err()
			return res, nil
		}
	}
}
