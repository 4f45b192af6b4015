package domain

import "time"

// StopReason records why pagination ended.
type StopReason string

const (
	StopTargetReached   StopReason = "target_reached"
	StopSourceExhausted StopReason = "source_exhausted"
	StopFetchFailed     StopReason = "fetch_failed"
	StopCanceled        StopReason = "canceled"
)

// Report is the outcome of one run: the annotated reviews in API order plus the summary.
// Stored runs are read back without Reviews; those are paged separately.
type Report struct {
	RunID      int64      `json:"run_id,omitempty"`
	ProductID  string     `json:"product_id"`
	Sort       SortOrder  `json:"sort"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Pages      int        `json:"pages"`
	Stop       StopReason `json:"stop_reason"`
	FetchError string     `json:"fetch_error,omitempty"`
	Reviews    []Review   `json:"reviews,omitempty"`
	Insights   Insights   `json:"insights"`
}
