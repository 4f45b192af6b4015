package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProductRef = errors.New("invalid product reference")
	ErrMalformedPage     = errors.New("malformed review page")
	ErrRetriesExhausted  = errors.New("retries exhausted")
	ErrNotFound          = errors.New("not found")
	ErrRunInProgress     = errors.New("scrape run already in progress")
)

// StatusError is a non-2xx answer from the vendor API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status %d", e.Status)
	}
	return fmt.Sprintf("bad status %d: %s", e.Status, e.Body)
}
