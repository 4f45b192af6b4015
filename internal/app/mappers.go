package app

import (
	"strconv"
	"strings"

	"review_insights/internal/domain"
)

/********** fallback chains (single source of truth) **********/

// Order matters: the first path holding a non-empty string wins and later paths are ignored,
// even when they are also present.
var reviewChains = map[string][]string{
	"text":     {"text", "reviewText", "comment", "content.body", "details.body"},
	"date":     {"submissionDate", "submittedAt", "submissionTime", "createdAt", "submissionDateTime"},
	"reviewer": {"author.nickname", "authorName", "userNickname", "reviewerName", "author"}, // bare author only when it is a string
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstInChain: first non-empty string along a named chain.
func firstInChain(m map[string]any, key string) *string {
	for _, p := range reviewChains[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// scalarString renders an opaque scalar id; objects and arrays are not ids.
func scalarString(v any) *string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil
	}
	return &s
}

// floatFlexible: number at path (float64/int/string like "4,5").
func floatFlexible(m map[string]any, path string) *float64 {
	switch v := lookupAny(m, path).(type) {
	case float64:
		f := v
		return &f
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

/********** review normalizer **********/

// NormalizeReview maps one raw vendor review to the canonical record. It never fails:
// anything missing or malformed resolves to an absent value or an empty text.
func NormalizeReview(r domain.RawReview) domain.Review {
	rv := domain.Review{
		PK:     scalarString(lookupAny(r, "id")),
		Rating: floatFlexible(r, "rating"),
		Source: domain.Source,
	}

	if t, ok := lookupAny(r, "title").(string); ok {
		rv.Title = &t
	}

	if s := firstInChain(r, "text"); s != nil {
		rv.Text = strings.TrimSpace(*s)
	}

	if raw := firstInChain(r, "date"); raw != nil {
		if d, ok := NormalizeDate(*raw); ok {
			rv.Date = &d
		}
	}

	rv.Reviewer = firstInChain(r, "reviewer")
	return rv
}

func NormalizeReviews(in []domain.RawReview) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		out = append(out, NormalizeReview(r))
	}
	return out
}
