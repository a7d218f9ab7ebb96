// Package dedup collapses near-duplicate stories. Two strategies exist: a
// subject-level greedy scan used before quota allocation, and a stricter
// title-similarity pass used for article and timeline lists.
package dedup

import (
	"net/url"
	"sort"
	"time"

	"github.com/atlaswire/curator/internal/event"
	"github.com/atlaswire/curator/internal/scoring"
	"github.com/atlaswire/curator/internal/similarity"
)

const (
	// DefaultSubjectThreshold gates the title edit-similarity test in SameSubject.
	DefaultSubjectThreshold = 0.7
	// DefaultStrictThreshold gates the weighted similarity in DeduplicateByTitle.
	DefaultStrictThreshold = 0.85

	sharedKeywordMin  = 2
	titleKeywordLimit = 5
	coOccurrenceWindow = 24 * time.Hour
	coOccurrenceMiles  = 50
)

// Deduplicator reduces event lists to one representative per story.
// Score orders candidates so the best representative is kept; Same is the
// pairwise duplicate predicate. Both are injectable: the default greedy scan
// is a deliberate approximation of exact clustering, and callers wanting
// union-find semantics can swap the predicate and re-cluster.
type Deduplicator struct {
	SubjectThreshold float64
	StrictThreshold  float64
	Score            func(*event.Event, time.Time) float64
	Same             func(a, b *event.Event) bool
}

// New returns a Deduplicator with the documented defaults. Thresholds
// outside (0,1] fall back to the defaults.
func New(subjectThreshold, strictThreshold float64) *Deduplicator {
	d := &Deduplicator{
		SubjectThreshold: subjectThreshold,
		StrictThreshold:  strictThreshold,
		Score:            scoring.FreshnessComposite,
	}
	if d.SubjectThreshold <= 0 || d.SubjectThreshold > 1 {
		d.SubjectThreshold = DefaultSubjectThreshold
	}
	if d.StrictThreshold <= 0 || d.StrictThreshold > 1 {
		d.StrictThreshold = DefaultStrictThreshold
	}
	d.Same = d.SameSubject
	return d
}

// SameSubject reports whether a and b describe the same story: near-identical
// titles, enough shared title keywords, or co-occurrence in time and place.
func (d *Deduplicator) SameSubject(a, b *event.Event) bool {
	if similarity.EditSimilarity(a.Title, b.Title) > d.SubjectThreshold {
		return true
	}
	ka := similarity.Keywords(a.Title, titleKeywordLimit)
	kb := similarity.Keywords(b.Title, titleKeywordLimit)
	if similarity.SharedKeywords(ka, kb) >= sharedKeywordMin {
		return true
	}
	dt := time.Duration(a.Timestamp-b.Timestamp) * time.Millisecond
	if dt < 0 {
		dt = -dt
	}
	if dt < coOccurrenceWindow &&
		similarity.DistanceMiles(a.Latitude, a.Longitude, b.Latitude, b.Longitude) < coOccurrenceMiles {
		return true
	}
	return false
}

// Deduplicate reduces events to one representative per duplicate cluster.
// Candidates are ordered descending by Score and scanned greedily: an event
// is dropped as soon as Same holds against any already-accepted event. The
// scan keeps the highest-scoring representative but is not transitive-safe;
// chained pairwise similarity can collapse distinct stories.
func (d *Deduplicator) Deduplicate(events []event.Event, now time.Time) []event.Event {
	if len(events) == 0 {
		return nil
	}
	ordered := make([]event.Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return d.Score(&ordered[i], now) > d.Score(&ordered[j], now)
	})

	accepted := make([]event.Event, 0, len(ordered))
	for i := range ordered {
		dup := false
		for j := range accepted {
			if d.Same(&ordered[i], &accepted[j]) {
				dup = true
				break
			}
		}
		if !dup {
			accepted = append(accepted, ordered[i])
		}
	}
	return accepted
}

// DeduplicateByTitle is the strict variant used for article and timeline
// lists. Similarity is 0.6·edit + 0.4·jaccard against each accepted item,
// with an exact URL-path match as an independent duplicate signal. On a hit
// the incoming item replaces the accepted one when it is more recent, or on
// a timestamp tie when it is more severe.
func (d *Deduplicator) DeduplicateByTitle(events []event.Event) []event.Event {
	if len(events) == 0 {
		return nil
	}
	accepted := make([]event.Event, 0, len(events))
	for i := range events {
		in := events[i]
		idx := -1
		for j := range accepted {
			if d.titleDuplicate(&in, &accepted[j]) {
				idx = j
				break
			}
		}
		if idx < 0 {
			accepted = append(accepted, in)
			continue
		}
		kept := &accepted[idx]
		if in.Timestamp > kept.Timestamp ||
			(in.Timestamp == kept.Timestamp && in.Severity > kept.Severity) {
			accepted[idx] = in
		}
	}
	return accepted
}

func (d *Deduplicator) titleDuplicate(a, b *event.Event) bool {
	combined := 0.6*similarity.EditSimilarity(a.Title, b.Title) +
		0.4*similarity.KeywordOverlap(a.Title, b.Title)
	if combined >= d.StrictThreshold {
		return true
	}
	pa, pb := urlPath(a.URL()), urlPath(b.URL())
	return pa != "" && pa == pb
}

func urlPath(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	return u.Path
}
