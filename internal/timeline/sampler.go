// Package timeline compresses a topic's event history into a bounded,
// chronological sequence of milestones: the origin, the latest development,
// the most severe moments, and evenly spaced fill between them.
package timeline

import (
	"sort"
	"time"

	"github.com/atlaswire/curator/internal/dedup"
	"github.com/atlaswire/curator/internal/event"
	"github.com/atlaswire/curator/internal/scoring"
)

// DefaultMaxEvents bounds the sampled timeline.
const DefaultMaxEvents = 40

// Sampler selects timeline milestones for one topic. Safe for concurrent
// use; every Sample call works on its own copies.
type Sampler struct {
	maxEvents int
	dd        *dedup.Deduplicator
}

// New returns a Sampler emitting at most maxEvents milestones (<=0 means
// the default) and using dd for the final strict title cleanup.
func New(maxEvents int, dd *dedup.Deduplicator) *Sampler {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	if dd == nil {
		dd = dedup.New(0, 0)
	}
	return &Sampler{maxEvents: maxEvents, dd: dd}
}

// Sample returns the topic's milestones, non-decreasing by timestamp.
func (s *Sampler) Sample(events []event.Event, now time.Time) []event.TimelineEvent {
	if len(events) == 0 {
		return nil
	}

	chrono := make([]event.Event, len(events))
	copy(chrono, events)
	sort.SliceStable(chrono, func(i, j int) bool {
		return chrono[i].Timestamp < chrono[j].Timestamp
	})

	picked := make(map[string]struct{}, s.maxEvents)
	var chosen []event.Event
	take := func(e event.Event) {
		if _, dup := picked[e.ID]; dup {
			return
		}
		picked[e.ID] = struct{}{}
		chosen = append(chosen, e)
	}

	// Origin and current endpoints.
	take(chrono[0])
	take(chrono[len(chrono)-1])

	if len(chrono) > 2 {
		interior := chrono[1 : len(chrono)-1]
		budget := s.maxEvents - len(chosen)

		// Top half of the remaining budget goes to the most severe moments.
		bySeverity := make([]event.Event, len(interior))
		copy(bySeverity, interior)
		sort.SliceStable(bySeverity, func(i, j int) bool {
			return scoring.Score(&bySeverity[i], now) > scoring.Score(&bySeverity[j], now)
		})
		for i := 0; i < len(bySeverity) && len(chosen) < 2+budget/2; i++ {
			take(bySeverity[i])
		}

		// Remaining budget: fixed-stride sweep so the fill spans the whole
		// range instead of clustering.
		if remaining := s.maxEvents - len(chosen); remaining > 0 {
			stride := len(interior) / remaining
			if stride < 1 {
				stride = 1
			}
			for i := 0; i < len(interior) && len(chosen) < s.maxEvents; i += stride {
				take(interior[i])
			}
		}
	}

	sort.SliceStable(chosen, func(i, j int) bool {
		return chosen[i].Timestamp < chosen[j].Timestamp
	})
	if len(chosen) > s.maxEvents {
		chosen = chosen[:s.maxEvents]
	}

	// Distinct ids can still describe the same story; a last strict title
	// pass collapses those.
	chosen = s.dd.DeduplicateByTitle(chosen)
	sort.SliceStable(chosen, func(i, j int) bool {
		return chosen[i].Timestamp < chosen[j].Timestamp
	})

	out := make([]event.TimelineEvent, 0, len(chosen))
	for i := range chosen {
		out = append(out, event.Milestone(&chosen[i]))
	}
	return out
}
