package agent

import (
	"strings"
	"time"
)

// phraseRule maps a coarse natural-language time phrase to a concrete clock
// time relative to now. Rules are checked in order; more specific phrases come
// first so "tomorrow afternoon" wins over a bare "afternoon"-style match.
type phraseRule struct {
	phrase    string
	dayOffset int
	hour      int
}

var phraseRules = []phraseRule{
	{"tomorrow afternoon", 1, 14},
	{"tomorrow morning", 1, 9},
	{"evening", 0, 18},
	{"after lunch", 0, 14},
}

// ResolvePhrase maps a coarse time phrase inside text to a concrete time in
// now's location. It exists as a deterministic fallback for when the model
// omits a timestamp; it returns nil when no known phrase matches, and the
// caller must then treat the time as unresolved.
func ResolvePhrase(text string, now time.Time) *time.Time {
	lower := strings.ToLower(text)
	for _, rule := range phraseRules {
		if !strings.Contains(lower, rule.phrase) {
			continue
		}
		t := time.Date(now.Year(), now.Month(), now.Day(), rule.hour, 0, 0, 0, now.Location())
		t = t.AddDate(0, 0, rule.dayOffset)
		return &t
	}
	return nil
}
