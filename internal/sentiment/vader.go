package sentiment

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"

	"review_insights/internal/domain"
)

const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Model yields a compound polarity in [-1, 1].
type Model interface {
	Compound(text string) float64
}

type vaderModel struct {
	a *govader.SentimentIntensityAnalyzer
}

func (m vaderModel) Compound(text string) float64 {
	return m.a.PolarityScores(text).Compound
}

// the lexicon load is not free; share one analyzer per process
var sharedVader = sync.OnceValue(func() Model {
	return vaderModel{a: govader.NewSentimentIntensityAnalyzer()}
})

// Scorer implements domain.SentimentScorer.
type Scorer struct {
	model Model
}

func NewScorer() *Scorer { return &Scorer{model: sharedVader()} }

func NewScorerWithModel(m Model) *Scorer { return &Scorer{model: m} }

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Preprocess lower-cases, flattens line breaks and trims.
func Preprocess(text string) string {
	return strings.TrimSpace(lineBreaks.Replace(strings.ToLower(text)))
}

// Classify maps a compound score to a label; both thresholds are inclusive.
func Classify(compound float64) domain.Sentiment {
	switch {
	case compound >= PositiveThreshold:
		return domain.Positive
	case compound <= NegativeThreshold:
		return domain.Negative
	default:
		return domain.Neutral
	}
}

// Analyze scores one review body. Text that is empty after preprocessing is Neutral with score 0.
func (s *Scorer) Analyze(text string) (domain.Sentiment, float64) {
	clean := Preprocess(text)
	if clean == "" {
		return domain.Neutral, 0
	}
	c := s.model.Compound(clean)
	return Classify(c), c
}
