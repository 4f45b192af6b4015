package app_test

import (
	"context"
	"errors"
	"testing"

	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/insights"
)

func TestPipeline_Run(t *testing.T) {
	f := &pageFetcher{pages: [][]domain.RawReview{{
		{"id": "a", "text": "good camera"},
		{"id": "b", "reviewText": "bad battery, slow"},
		{"id": "c", "comment": "good battery"},
		{"id": "d", "text": "arrived"},
	}}}
	sink := &recordingSink{}
	p := app.NewPipeline(f, keywordScorer{}, insights.NewAggregator(insights.DefaultVocabulary), sink)

	cfg := cfgFor(10)
	cfg.Sort = domain.SortNewest
	rep, err := p.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if rep.ProductID != "17050611" || rep.Sort != domain.SortNewest || rep.Stop != domain.StopSourceExhausted || rep.Pages != 1 {
		t.Fatalf("unexpected header %+v", rep)
	}
	if rep.FinishedAt.Before(rep.StartedAt) {
		t.Fatalf("timestamps out of order")
	}
	wantLabels := []domain.Sentiment{domain.Positive, domain.Negative, domain.Positive, domain.Neutral}
	for i, r := range rep.Reviews {
		if r.Sentiment != wantLabels[i] {
			t.Fatalf("review %d labelled %s, want %s", i, r.Sentiment, wantLabels[i])
		}
	}
	in := rep.Insights
	if in.TotalReviews != 4 || in.Distribution != (domain.Distribution{Positive: 2, Negative: 1, Neutral: 1}) {
		t.Fatalf("insights=%+v", in)
	}
	if len(in.PositiveDrivers) != 2 || in.PositiveDrivers[0].Aspect != "camera" || in.PositiveDrivers[1].Aspect != "battery" {
		t.Fatalf("positive drivers=%+v", in.PositiveDrivers)
	}
	if len(in.NegativeDrivers) != 2 || in.NegativeDrivers[0].Aspect != "battery" || in.NegativeDrivers[1].Aspect != "performance" {
		t.Fatalf("negative drivers=%+v", in.NegativeDrivers)
	}
	if len(sink.reps) != 1 || len(sink.reps[0].Reviews) != 4 {
		t.Fatalf("sink not called with the report")
	}
}

func TestPipeline_FetchFailureStillPublishes(t *testing.T) {
	f := &pageFetcher{pages: [][]domain.RawReview{page(1, 100)}, failAt: 2, failErr: domain.ErrRetriesExhausted}
	sink := &recordingSink{}
	p := app.NewPipeline(f, keywordScorer{}, insights.NewAggregator(insights.DefaultVocabulary), sink)

	rep, err := p.Run(context.Background(), cfgFor(500))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.Stop != domain.StopFetchFailed || rep.FetchError == "" || len(rep.Reviews) != 100 {
		t.Fatalf("unexpected %+v", rep)
	}
	if len(sink.reps) != 1 {
		t.Fatalf("partial run should reach sinks")
	}
}

func TestPipeline_SinkErrorsJoined(t *testing.T) {
	f := &pageFetcher{}
	e1, e2 := errors.New("disk full"), errors.New("db down")
	ok := &recordingSink{}
	p := app.NewPipeline(f, keywordScorer{}, insights.NewAggregator(insights.DefaultVocabulary),
		&recordingSink{err: e1}, ok, &recordingSink{err: e2})

	rep, err := p.Run(context.Background(), cfgFor(5))
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("err=%v", err)
	}
	if rep.Stop != domain.StopSourceExhausted || len(ok.reps) != 1 {
		t.Fatalf("report must be returned and every sink tried")
	}
}

func TestPipeline_InvalidConfig(t *testing.T) {
	sink := &recordingSink{}
	p := app.NewPipeline(&pageFetcher{}, keywordScorer{}, insights.NewAggregator(insights.DefaultVocabulary), sink)
	if _, err := p.Run(context.Background(), domain.FetchConfig{}); err == nil {
		t.Fatalf("expected error")
	}
	if len(sink.reps) != 0 {
		t.Fatalf("nothing should be published")
	}
}

func TestAnnotate(t *testing.T) {
	rs := []domain.Review{{Text: "good"}, {Text: "bad"}, {Text: ""}}
	app.Annotate(rs, keywordScorer{})
	if rs[0].Sentiment != domain.Positive || rs[0].SentimentScore != 0.6 ||
		rs[1].Sentiment != domain.Negative || rs[2].Sentiment != domain.Neutral {
		t.Fatalf("unexpected %+v", rs)
	}
}
