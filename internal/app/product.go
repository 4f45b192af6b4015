package app

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"review_insights/internal/domain"
)

var productIDPattern = regexp.MustCompile(`(?:^|/)(\d+)$`)

// ExtractProductID pulls the numeric product id from a product page URL or accepts a bare id.
// The query string and fragment of a URL are ignored.
func ExtractProductID(ref string) (string, error) {
	s := strings.TrimSpace(ref)
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		s = u.Path
	}
	s = strings.TrimRight(s, "/")

	m := productIDPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: no trailing product id in %q", domain.ErrInvalidProductRef, ref)
	}
	return m[1], nil
}
