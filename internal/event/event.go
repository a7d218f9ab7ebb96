package event

import (
	"fmt"
	"time"
)

// Category tags an event with one of the known news categories.
type Category string

const (
	CategoryPolitics      Category = "politics"
	CategoryBusiness      Category = "business"
	CategoryTechnology    Category = "technology"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategoryMilitary      Category = "military"
	CategoryCrime         Category = "crime"
	CategoryCulture       Category = "culture"
	CategoryClimate       Category = "climate"
	CategoryEarthquake    Category = "earthquake"
	CategoryWildfire      Category = "wildfire"
	CategoryFlood         Category = "flood"
	CategoryHurricane     Category = "hurricane"
	CategoryTornado       Category = "tornado"
	CategoryVolcano       Category = "volcano"
	CategoryTsunami       Category = "tsunami"
	CategoryOther         Category = "other"
)

// Categories lists every known category in table order.
var Categories = []Category{
	CategoryPolitics, CategoryBusiness, CategoryTechnology, CategorySports,
	CategoryEntertainment, CategoryHealth, CategoryScience, CategoryMilitary,
	CategoryCrime, CategoryCulture, CategoryClimate, CategoryEarthquake,
	CategoryWildfire, CategoryFlood, CategoryHurricane, CategoryTornado,
	CategoryVolcano, CategoryTsunami, CategoryOther,
}

// DisasterCategories is the subset counted against the shared natural-disaster cap.
var DisasterCategories = []Category{
	CategoryEarthquake, CategoryWildfire, CategoryFlood, CategoryHurricane,
	CategoryTornado, CategoryVolcano, CategoryTsunami,
}

var knownCategories = func() map[Category]struct{} {
	m := make(map[Category]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

var disasterSet = func() map[Category]struct{} {
	m := make(map[Category]struct{}, len(DisasterCategories))
	for _, c := range DisasterCategories {
		m[c] = struct{}{}
	}
	return m
}()

// Known reports whether c is one of the enumerated categories.
func (c Category) Known() bool {
	_, ok := knownCategories[c]
	return ok
}

// Disaster reports whether c counts against the natural-disaster cap.
func (c Category) Disaster() bool {
	_, ok := disasterSet[c]
	return ok
}

// Event is the canonical input record: one normalized news item.
// Timestamp is epoch milliseconds, coordinates are WGS84 degrees.
type Event struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Category    Category               `json:"category"`
	Severity    float64                `json:"severity"` // 0–10, recomputable
	Latitude    float64                `json:"latitude"`
	Longitude   float64                `json:"longitude"`
	Timestamp   int64                  `json:"timestamp"` // epoch ms
	Source      string                 `json:"source"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
}

// Time returns the event timestamp as a time.Time.
func (e *Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age returns how long before now the event was published.
// Events stamped in the future report zero age.
func (e *Event) Age(now time.Time) time.Duration {
	d := now.Sub(e.Time())
	if d < 0 {
		return 0
	}
	return d
}

// metaString returns a string meta field, or "" when absent.
func (e *Event) metaString(key string) string {
	if e.Meta == nil {
		return ""
	}
	if s, ok := e.Meta[key].(string); ok {
		return s
	}
	return ""
}

// metaInt reads an int meta field, tolerating the float64 that
// encoding/json produces for numbers.
func (e *Event) metaInt(key string) int {
	if e.Meta == nil {
		return 0
	}
	switch v := e.Meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Country returns the meta country name, or "" when the event carries none.
// Events without a country are exempt from country quotas.
func (e *Event) Country() string { return e.metaString("country") }

// LocationName returns the human-readable place name, if any.
func (e *Event) LocationName() string { return e.metaString("location") }

// URL returns the source article URL, if any.
func (e *Event) URL() string { return e.metaString("url") }

// SourceTier returns the source credibility tier (1 best), 0 when unset.
func (e *Event) SourceTier() int { return e.metaInt("source_tier") }

// Ongoing reports whether the story is flagged as still developing.
func (e *Event) Ongoing() bool {
	if e.Meta == nil {
		return false
	}
	b, _ := e.Meta["ongoing"].(bool)
	return b
}

// ArticleCount returns the number of corroborating articles observed.
func (e *Event) ArticleCount() int { return e.metaInt("article_count") }

// TimelineEvent is the read-only projection returned by the timeline sampler.
type TimelineEvent struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Timestamp int64   `json:"timestamp"`
	Source    string  `json:"source"`
	Severity  float64 `json:"severity"`
	URL       string  `json:"url,omitempty"`
	Location  string  `json:"location,omitempty"`
}

// Milestone projects an Event into its timeline view.
func Milestone(e *Event) TimelineEvent {
	return TimelineEvent{
		ID:        e.ID,
		Title:     e.Title,
		Timestamp: e.Timestamp,
		Source:    e.Source,
		Severity:  e.Severity,
		URL:       e.URL(),
		Location:  e.LocationName(),
	}
}

// Normalize applies the input-contract defaults in place: unknown or empty
// categories fall back to "other", an unset severity defaults to mid-scale.
func Normalize(e *Event) {
	if !e.Category.Known() {
		e.Category = CategoryOther
	}
	if e.Severity == 0 {
		e.Severity = 5
	}
}

// Validate rejects records that violate the input contract. Upstream
// normalization owns geocoding and timestamp parsing; a record that still
// fails here is a caller bug, not something to coerce.
func Validate(e *Event) error {
	if e.ID == "" {
		return fmt.Errorf("event: id is required")
	}
	if e.Latitude < -90 || e.Latitude > 90 {
		return fmt.Errorf("event %s: latitude %v out of range [-90,90]", e.ID, e.Latitude)
	}
	if e.Longitude < -180 || e.Longitude > 180 {
		return fmt.Errorf("event %s: longitude %v out of range [-180,180]", e.ID, e.Longitude)
	}
	if e.Timestamp < 0 {
		return fmt.Errorf("event %s: negative timestamp %d", e.ID, e.Timestamp)
	}
	return nil
}
