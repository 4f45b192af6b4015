package insights

import (
	"sort"

	"review_insights/internal/domain"
)

const DefaultTop = 5

// Aggregator turns an annotated run into positive and negative aspect drivers.
type Aggregator struct {
	vocab Vocabulary
	top   int
}

func NewAggregator(v Vocabulary) *Aggregator {
	return &Aggregator{vocab: v, top: DefaultTop}
}

// Summarize counts aspect mentions separately over Positive and Negative reviews; Neutral ones
// only feed the totals. Drivers are sorted by count, ties keep first-seen order.
func (a *Aggregator) Summarize(rs []domain.Review) domain.Insights {
	var pos, neg tally
	out := domain.Insights{TotalReviews: len(rs)}
	for _, r := range rs {
		switch r.Sentiment {
		case domain.Positive:
			out.Distribution.Positive++
			pos.add(a.vocab.Extract(r.Text))
		case domain.Negative:
			out.Distribution.Negative++
			neg.add(a.vocab.Extract(r.Text))
		case domain.Neutral:
			out.Distribution.Neutral++
		}
	}
	out.PositiveDrivers = pos.top(a.top)
	out.NegativeDrivers = neg.top(a.top)
	return out
}

// tally is an insertion-ordered counter.
type tally struct {
	order  []string
	counts map[string]int
}

func (t *tally) add(names []string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	for _, n := range names {
		if _, seen := t.counts[n]; !seen {
			t.order = append(t.order, n)
		}
		t.counts[n]++
	}
}

func (t *tally) top(n int) []domain.AspectCount {
	out := make([]domain.AspectCount, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, domain.AspectCount{Aspect: name, Count: t.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
