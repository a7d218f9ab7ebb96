// Package scoring computes the 0–10 severity heuristic and the priority
// composites built on top of it.
package scoring

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/atlaswire/curator/internal/event"
)

// categoryBase maps each category to its baseline severity.
var categoryBase = map[event.Category]float64{
	event.CategoryTsunami:       9,
	event.CategoryEarthquake:    8,
	event.CategoryVolcano:       8,
	event.CategoryHurricane:     8,
	event.CategoryMilitary:      8,
	event.CategoryTornado:       7,
	event.CategoryWildfire:      7,
	event.CategoryFlood:         7,
	event.CategoryPolitics:      6,
	event.CategoryCrime:         6,
	event.CategoryHealth:        6,
	event.CategoryClimate:       6,
	event.CategoryBusiness:      5,
	event.CategoryScience:       5,
	event.CategoryTechnology:    4,
	event.CategoryOther:         4,
	event.CategoryCulture:       3,
	event.CategoryEntertainment: 2,
	event.CategorySports:        2,
}

const unknownBase = 5

var (
	criticalWords = wordPattern("catastrophic", "devastating", "emergency",
		"crisis", "critical", "deadly", "massive", "unprecedented")
	notableWords = wordPattern("major", "significant", "serious", "severe",
		"important", "breaking", "urgent")
	casualtyWords = wordPattern("killed", "dead", "deaths", "casualties",
		"injured", "missing", "thousands", "displaced", "evacuated")
	multiRegionWords = wordPattern("country", "countries", "global",
		"international", "worldwide", "region", "regions", "nations",
		"continent")
)

// wordPattern compiles a case-insensitive word-boundary alternation,
// so "ai" style short cues never match inside longer words.
func wordPattern(words ...string) *regexp.Regexp {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
}

// Score computes the severity heuristic for e at the given reference time.
// The result is clamped to [0,10] and rounded to one decimal.
func Score(e *event.Event, now time.Time) float64 {
	s, ok := categoryBase[e.Category]
	if !ok {
		s = unknownBase
	}

	switch age := e.Age(now); {
	case age < 6*time.Hour:
		s += 2
	case age < 24*time.Hour:
		s += 1
	case age > 7*24*time.Hour:
		s -= 1
	}

	switch e.SourceTier() {
	case 1:
		s += 1
	case 3:
		s -= 0.5
	}

	text := e.Title + " " + e.Description
	switch {
	case criticalWords.MatchString(text):
		s += 2
	case notableWords.MatchString(text):
		s += 1
	}
	if casualtyWords.MatchString(text) {
		s += 1
	}
	if distinctMatches(multiRegionWords, text) >= 2 {
		s += 1
	}
	if e.Ongoing() {
		s += 0.5
	}
	switch n := e.ArticleCount(); {
	case n >= 10:
		s += 1
	case n >= 5:
		s += 0.5
	}

	s = math.Round(s*10) / 10
	return math.Min(10, math.Max(0, s))
}

// distinctMatches counts distinct lowercase cue words matched in text.
func distinctMatches(re *regexp.Regexp, text string) int {
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(text, -1) {
		seen[strings.ToLower(m)] = struct{}{}
	}
	return len(seen)
}

// Priority is the allocator's tie-break composite. It increases with age at
// equal severity; that is the documented behavior, kept as-is rather than
// inverted (callers can substitute their own key).
func Priority(e *event.Event, now time.Time) float64 {
	return e.Severity*10 + e.Age(now).Hours()
}

// FreshnessComposite orders duplicate clusters so the best representative
// survives: severity plus days since publication.
func FreshnessComposite(e *event.Event, now time.Time) float64 {
	return e.Severity + e.Age(now).Hours()/24
}
