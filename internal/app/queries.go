package app

import (
	"context"
	"fmt"
	"time"

	"review_insights/internal/domain"
)

type QueryService struct {
	store    domain.RunStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s domain.RunStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: s, cache: c, cacheTTL: ttl}
}

func genKey(productID string) string { return fmt.Sprintf("run:%s:gen", productID) }

func latestKey(productID string, gen int64) string {
	return fmt.Sprintf("run:%s:latest:%d", productID, gen)
}

// generation reads the product's cache generation; a missing counter is generation 0.
func (s *QueryService) generation(ctx context.Context, productID string) (int64, error) {
	var gen int64
	if _, err := s.cache.Get(ctx, genKey(productID), &gen); err != nil {
		return 0, err
	}
	return gen, nil
}

// LatestRun returns the newest stored run for a product, without its reviews.
// The cached copy lives under the generation read before the store, so a read that
// races a new run can only fill a key Invalidate has already retired.
func (s *QueryService) LatestRun(ctx context.Context, productID string) (domain.Report, error) {
	gen, genErr := s.generation(ctx, productID)
	key := latestKey(productID, gen)
	var rep domain.Report
	if genErr == nil {
		if ok, _ := s.cache.Get(ctx, key, &rep); ok {
			return rep, nil
		}
	}
	rep, err := s.store.LatestRun(ctx, productID)
	if err != nil {
		return domain.Report{}, err
	}
	if genErr == nil {
		_ = s.cache.Set(ctx, key, rep, int(s.cacheTTL.Seconds()))
	}
	return rep, nil
}

// ListReviews pages the reviews of the newest run in API order. Stored runs are immutable,
// so the cache key carries the run id and never needs invalidation.
func (s *QueryService) ListReviews(ctx context.Context, productID string, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	run, err := s.LatestRun(ctx, productID)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	key := fmt.Sprintf("reviews:%d:%d:%s", run.RunID, q.Limit, q.Sentiment)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.store.ListReviews(ctx, run.RunID, q)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy slice to avoid aliasing the store's backing array
	out = domain.ReviewsPage{RunID: run.RunID, Items: append([]domain.Review(nil), rs...)}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// Invalidate retires the cached latest run by moving the product to a new generation.
// If the counter cannot be bumped the current entry is dropped instead.
func (s *QueryService) Invalidate(ctx context.Context, productID string) {
	if _, err := s.cache.Incr(ctx, genKey(productID)); err == nil {
		return
	}
	if gen, err := s.generation(ctx, productID); err == nil {
		_ = s.cache.Del(ctx, latestKey(productID, gen))
	}
}
