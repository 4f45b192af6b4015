package app

import (
	"context"

	"golang.org/x/sync/semaphore"

	"review_insights/internal/domain"
)

// ScrapeService serves on-demand runs. Runs never overlap: a second trigger while one is
// in flight is rejected rather than queued.
type ScrapeService struct {
	pipeline *Pipeline
	queries  *QueryService
	sem      *semaphore.Weighted
}

func NewScrapeService(p *Pipeline, q *QueryService) *ScrapeService {
	return &ScrapeService{pipeline: p, queries: q, sem: semaphore.NewWeighted(1)}
}

func (s *ScrapeService) Trigger(ctx context.Context, cfg domain.FetchConfig) (domain.Report, error) {
	if err := cfg.Validate(); err != nil {
		return domain.Report{}, err
	}
	if !s.sem.TryAcquire(1) {
		return domain.Report{}, domain.ErrRunInProgress
	}
	defer s.sem.Release(1)

	rep, err := s.pipeline.Run(ctx, cfg)
	// a new run supersedes whatever was cached for this product, even if a sink failed
	if s.queries != nil {
		s.queries.Invalidate(ctx, cfg.ProductID)
	}
	return rep, err
}
