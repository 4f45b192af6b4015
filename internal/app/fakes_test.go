package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"review_insights/internal/domain"
)

// ---- fakes ----

// pageFetcher serves canned pages (index 0 is page 1). A page past the end is empty.
// failAt > 0 makes that page fail with failErr.
type pageFetcher struct {
	mu      sync.Mutex
	pages   [][]domain.RawReview
	failAt  int
	failErr error
	reqs    []domain.PageRequest

	started chan struct{} // closed on first call when non-nil
	release chan struct{} // first call blocks until closed when non-nil
	once    sync.Once
}

func (f *pageFetcher) FetchPage(ctx context.Context, req domain.PageRequest) ([]domain.RawReview, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()

	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failAt > 0 && req.Page == f.failAt {
		return nil, f.failErr
	}
	if req.Page-1 < len(f.pages) {
		return f.pages[req.Page-1], nil
	}
	return nil, nil
}

func (f *pageFetcher) requests() []domain.PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PageRequest(nil), f.reqs...)
}

// page builds n raw reviews with ids starting at from.
func page(from, n int) []domain.RawReview {
	out := make([]domain.RawReview, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, domain.RawReview{
			"id":             float64(i),
			"text":           fmt.Sprintf("review %d", i),
			"submissionDate": "2024-03-01T12:00:00Z",
			"rating":         float64(1 + i%5),
		})
	}
	return out
}

// keywordScorer: "good" is positive, "bad" negative, anything else neutral.
type keywordScorer struct{}

func (keywordScorer) Analyze(text string) (domain.Sentiment, float64) {
	switch {
	case strings.Contains(text, "good"):
		return domain.Positive, 0.6
	case strings.Contains(text, "bad"):
		return domain.Negative, -0.6
	default:
		return domain.Neutral, 0
	}
}

type recordingSink struct {
	mu   sync.Mutex
	reps []domain.Report
	err  error
}

func (s *recordingSink) Publish(ctx context.Context, rep domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reps = append(s.reps, rep)
	return s.err
}

type fakeStore struct {
	runs    map[string]domain.Report
	reviews map[int64][]domain.Review
	latestN int
	listN   int

	// afterRead runs once inside LatestRun, after the current run has been read
	afterRead func()
}

func (f *fakeStore) SaveRun(ctx context.Context, rep domain.Report) (int64, error) {
	if f.runs == nil {
		f.runs = map[string]domain.Report{}
		f.reviews = map[int64][]domain.Review{}
	}
	rep.RunID = int64(len(f.reviews) + 1)
	f.reviews[rep.RunID] = rep.Reviews
	rep.Reviews = nil
	f.runs[rep.ProductID] = rep
	return rep.RunID, nil
}

func (f *fakeStore) LatestRun(ctx context.Context, productID string) (domain.Report, error) {
	f.latestN++
	rep, ok := f.runs[productID]
	if hook := f.afterRead; hook != nil {
		f.afterRead = nil
		hook()
	}
	if !ok {
		return domain.Report{}, domain.ErrNotFound
	}
	return rep, nil
}

func (f *fakeStore) ListReviews(ctx context.Context, runID int64, q domain.ReviewsQuery) ([]domain.Review, error) {
	f.listN++
	var out []domain.Review
	for _, r := range f.reviews[runID] {
		if q.Sentiment != "" && r.Sentiment != q.Sentiment {
			continue
		}
		out = append(out, r)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// jsonCache stores encoded values, like the redis adapter does.
type jsonCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	deleted []string
}

func (c *jsonCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *jsonCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}

func (c *jsonCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.store, k)
	}
	c.deleted = append(c.deleted, keys...)
	return nil
}

func (c *jsonCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if b, ok := c.store[key]; ok {
		if err := json.Unmarshal(b, &n); err != nil {
			return 0, err
		}
	}
	n++
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key], _ = json.Marshal(n)
	return n, nil
}

func ptr[T any](v T) *T { return &v }
