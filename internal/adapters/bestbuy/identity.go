package bestbuy

import (
	"math/rand/v2"
	"slices"
)

// DefaultUserAgents is the identity pool sent as User-Agent. Read-only after init.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/125.0",
}

// Rotator hands out an outbound identity chosen uniformly at random on every call.
// It keeps no per-call state, so consecutive calls may repeat.
type Rotator struct {
	pool []string
	pick func(n int) int
}

// NewRotator copies pool; an empty pool falls back to DefaultUserAgents.
func NewRotator(pool ...string) *Rotator {
	if len(pool) == 0 {
		pool = DefaultUserAgents
	}
	return &Rotator{pool: slices.Clone(pool), pick: rand.IntN}
}

func (r *Rotator) Next() string {
	return r.pool[r.pick(len(r.pool))]
}
