package domain

type AspectCount struct {
	Aspect string `json:"aspect"`
	Count  int    `json:"count"`
}

type Distribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Insights summarises one annotated run. Driver lists hold at most five entries, most frequent first.
type Insights struct {
	TotalReviews    int           `json:"total_reviews"`
	PositiveDrivers []AspectCount `json:"positive_drivers"`
	NegativeDrivers []AspectCount `json:"negative_drivers"`
	Distribution    Distribution  `json:"distribution"`
}
