package app

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ISO-8601 shapes seen from the review API, most specific first.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15",
	"2006-01-02 15",
	dateLayout,
	// basic format
	"20060102T150405-0700",
	"20060102T150405",
	"20060102",
}

// NormalizeDate reduces an ISO-8601 timestamp to its calendar date (YYYY-MM-DD), keeping the
// timestamp's own wall-clock date. A trailing UTC designator is tolerated. ok is false for
// empty or unparseable input.
func NormalizeDate(raw string) (date string, ok bool) {
	s := strings.TrimSuffix(strings.TrimSpace(raw), "Z")
	if s == "" {
		return "", false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), true
		}
	}
	return "", false
}
