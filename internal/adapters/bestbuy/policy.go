package bestbuy

import (
	"slices"
	"time"
)

// RetryPolicy decides which outcomes are transient and how long to wait between attempts.
type RetryPolicy struct {
	Statuses     []int         // retryable HTTP statuses
	MaxAttempts  int           // total attempts, first one included
	BaseDelay    time.Duration // wait after the first failed attempt; doubles afterwards
	MaxDelay     time.Duration // cap for computed and server-supplied waits
	RetryNetwork bool          // retry transport errors (refused, reset, timeout)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Statuses:     []int{403, 429, 500, 502, 503},
		MaxAttempts:  5,
		BaseDelay:    time.Second,
		MaxDelay:     time.Minute,
		RetryNetwork: true,
	}
}

func (p RetryPolicy) Retryable(status int) bool {
	return slices.Contains(p.Statuses, status)
}

// Backoff returns the wait after failed attempt n (1-based): base, 2*base, 4*base, ...
func (p RetryPolicy) Backoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	d := p.BaseDelay << (n - 1)
	return p.clamp(d)
}

func (p RetryPolicy) clamp(d time.Duration) time.Duration {
	if p.MaxDelay > 0 && (d > p.MaxDelay || d < 0) {
		return p.MaxDelay
	}
	return d
}
