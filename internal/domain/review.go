package domain

import (
	"fmt"
	"strings"
)

// Source is the provider literal stamped on every canonical review.
const Source = "bestbuy.ca"

type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
	Neutral  Sentiment = "Neutral"
)

// RawReview is one review object exactly as the vendor API delivered it.
// Shapes vary between API versions; fields may nest under author/content/details.
type RawReview = map[string]any

// Review is the canonical, source-agnostic record. Sentiment and SentimentScore
// stay zero until the pipeline annotates the run.
type Review struct {
	PK             *string   `json:"pk"`
	Title          *string   `json:"title"`
	Text           string    `json:"review_text"`
	Date           *string   `json:"date"` // YYYY-MM-DD
	Rating         *float64  `json:"rating"`
	Source         string    `json:"source"`
	Reviewer       *string   `json:"reviewer"`
	Sentiment      Sentiment `json:"sentiment,omitempty"`
	SentimentScore float64   `json:"sentiment_score"`
}

// Payload re-expresses the canonical fields under the vendor's primary keys,
// so normalizing the result yields the same record again.
func (r Review) Payload() RawReview {
	p := RawReview{"text": r.Text}
	if r.PK != nil {
		p["id"] = *r.PK
	}
	if r.Title != nil {
		p["title"] = *r.Title
	}
	if r.Date != nil {
		p["submissionDate"] = *r.Date
	}
	if r.Rating != nil {
		p["rating"] = *r.Rating
	}
	if r.Reviewer != nil {
		p["authorName"] = *r.Reviewer
	}
	return p
}

// ParseSentiment accepts a label case-insensitively. Empty means no filter.
func ParseSentiment(s string) (Sentiment, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, l := range []Sentiment{Positive, Negative, Neutral} {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment %q", s)
}
