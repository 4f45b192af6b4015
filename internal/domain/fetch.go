package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type SortOrder string

const (
	SortRelevancy  SortOrder = "relevancy"
	SortNewest     SortOrder = "newest"
	SortRatingHigh SortOrder = "ratingHigh"
	SortRatingLow  SortOrder = "ratingLow"
)

// PageSize is fixed by the vendor API.
const PageSize = 100

const (
	DefaultMaxReviews = 500
	DefaultDelay      = 500 * time.Millisecond
)

// ParseSortOrder accepts the vendor spelling, case-insensitively. Empty means relevancy.
func ParseSortOrder(s string) (SortOrder, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortRelevancy, nil
	}
	for _, o := range []SortOrder{SortRelevancy, SortNewest, SortRatingHigh, SortRatingLow} {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// ProxyConfig routes outbound requests per scheme. An empty config leaves routing to the fetcher.
type ProxyConfig struct {
	HTTP  string
	HTTPS string
}

// Validate rejects proxy URLs without a host. The URL itself is never echoed, it may hold credentials.
func (p ProxyConfig) Validate() error {
	for scheme, raw := range map[string]string{"http": p.HTTP, "https": p.HTTPS} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Host == "" {
			return fmt.Errorf("invalid %s proxy URL", scheme)
		}
	}
	return nil
}

// FetchConfig holds the per-run parameters. Treat it as a value; nothing mutates it after start.
type FetchConfig struct {
	ProductID  string
	MaxReviews int
	Delay      time.Duration
	Proxy      ProxyConfig
	PageSize   int
	Sort       SortOrder
}

func NewFetchConfig(productID string) FetchConfig {
	return FetchConfig{
		ProductID:  productID,
		MaxReviews: DefaultMaxReviews,
		Delay:      DefaultDelay,
		PageSize:   PageSize,
		Sort:       SortRelevancy,
	}
}

func (c FetchConfig) Validate() error {
	switch {
	case c.ProductID == "":
		return fmt.Errorf("%w: empty product id", ErrInvalidProductRef)
	case c.MaxReviews <= 0:
		return fmt.Errorf("max reviews must be positive, got %d", c.MaxReviews)
	case c.Delay < 0:
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	case c.PageSize != PageSize:
		return fmt.Errorf("page size is fixed at %d, got %d", PageSize, c.PageSize)
	}
	if _, err := ParseSortOrder(string(c.Sort)); err != nil {
		return err
	}
	return c.Proxy.Validate()
}

// PageRequest addresses one page of the vendor review listing (pages start at 1).
// A non-empty Proxy overrides the fetcher's own routing for this request.
type PageRequest struct {
	ProductID string
	Page      int
	PageSize  int
	Sort      SortOrder
	Proxy     ProxyConfig
}
