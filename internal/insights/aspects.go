package insights

import "strings"

// Aspect is a product attribute detected by keyword presence.
type Aspect struct {
	Name     string
	Keywords []string // lower-case
}

// Vocabulary is ordered; extraction reports aspects in declaration order.
type Vocabulary []Aspect

// DefaultVocabulary is process-wide and read-only.
var DefaultVocabulary = Vocabulary{
	{Name: "camera", Keywords: []string{"camera", "photo", "picture"}},
	{Name: "battery", Keywords: []string{"battery", "charge", "power"}},
	{Name: "display", Keywords: []string{"screen", "display"}},
	{Name: "performance", Keywords: []string{"fast", "slow", "lag"}},
	{Name: "price", Keywords: []string{"price", "cost", "expensive", "cheap"}},
	{Name: "design", Keywords: []string{"design", "look", "color"}},
	{Name: "quality", Keywords: []string{"quality", "build", "durable"}},
}

// Extract returns each aspect with at least one keyword occurring anywhere in text,
// case-insensitively. Matching is on substrings, so "charger" counts for battery.
// An aspect is reported once no matter how many of its keywords match.
func (v Vocabulary) Extract(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, a := range v {
		for _, kw := range a.Keywords {
			if strings.Contains(lower, kw) {
				found = append(found, a.Name)
				break
			}
		}
	}
	return found
}
