// Package curate selects a bounded, balanced subset of a deduplicated event
// list: per-category count ranges, regional minimums and ceilings, a shared
// natural-disaster cap, and a per-country presence floor.
package curate

import (
	"sort"
	"strings"
	"time"

	"github.com/atlaswire/curator/internal/event"
)

const keyCategoryPairMax = 2

// Allocator runs the staged quota allocation. It is stateless between calls;
// every Allocate builds its own counters, so concurrent calls are safe.
type Allocator struct {
	cfg Config
}

// New returns an Allocator, filling unset Config fields with the defaults.
func New(cfg Config) *Allocator {
	return &Allocator{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (a *Allocator) Config() Config { return a.cfg }

// run is the ephemeral per-call allocation state: counters per category,
// region, and country, plus the shared disaster counter. Discarded after.
type run struct {
	cfg    *Config
	events []event.Event
	now    time.Time

	region   []string  // resolved once per event, "" = unregioned
	country  []string  // normalized lowercase, "" = exempt
	priority []float64 // cfg.PriorityKey, cached

	selected  []bool
	order     []int
	catCount  map[event.Category]int
	regCount  map[string]int
	pairCount map[string]int // key category|region
	disasters int
	total     int

	catMax    map[event.Category]int
	regionIdx map[string]*Region
}

// CountryQuota tracks one country's presence in the selection.
type CountryQuota struct {
	Country string
	Current int
	Min     int
	Target  int
}

// Allocate selects a balanced subset of the (already deduplicated) events.
// The result preserves selection order across the eight stages; callers must
// not rely on any finer ordering.
func (a *Allocator) Allocate(events []event.Event, now time.Time) []event.Event {
	if len(events) == 0 {
		return nil
	}
	r := a.newRun(events, now)

	r.fillCategoryMinimums()
	r.fillRegions(func(reg *Region) int { return reg.MinStories })
	r.fillRegions(func(reg *Region) int { return reg.TargetStories })
	r.fillKeyCategoryFloors()
	r.fillEntertainmentDiversity()
	r.fillCategoryMaximums()
	r.fillGlobalTopUp()
	r.fillCountryFloors()

	out := make([]event.Event, 0, len(r.order))
	for _, i := range r.order {
		out = append(out, events[i])
	}
	return out
}

func (a *Allocator) newRun(events []event.Event, now time.Time) *run {
	r := &run{
		cfg:       &a.cfg,
		events:    events,
		now:       now,
		region:    make([]string, len(events)),
		country:   make([]string, len(events)),
		priority:  make([]float64, len(events)),
		selected:  make([]bool, len(events)),
		catCount:  make(map[event.Category]int),
		regCount:  make(map[string]int),
		pairCount: make(map[string]int),
		catMax:    make(map[event.Category]int, len(a.cfg.Categories)),
		regionIdx: make(map[string]*Region, len(a.cfg.Regions)),
	}
	for i := range a.cfg.Categories {
		t := &a.cfg.Categories[i]
		if _, dup := r.catMax[t.Category]; !dup {
			r.catMax[t.Category] = t.MaxCount
		}
	}
	for i := range a.cfg.Regions {
		r.regionIdx[a.cfg.Regions[i].Name] = &a.cfg.Regions[i]
	}
	for i := range events {
		e := &events[i]
		// First matching box in table order wins; no match = unregioned.
		for j := range a.cfg.Regions {
			if a.cfg.Regions[j].Contains(e.Latitude, e.Longitude) {
				r.region[i] = a.cfg.Regions[j].Name
				break
			}
		}
		r.country[i] = strings.ToLower(strings.TrimSpace(e.Country()))
		r.priority[i] = a.cfg.PriorityKey(e, now)
	}
	return r
}

// admission flags per stage
type admitRule struct {
	regionCeiling bool // enforce the stage-3 target ceiling
	totalCap      bool // enforce MaxTotalEvents
	categoryMax   bool // enforce the per-category MaxCount
}

// canAdd checks every constraint the current stage enforces. The disaster
// cap holds at every stage, the country floor included.
func (r *run) canAdd(i int, rule admitRule) bool {
	if r.selected[i] {
		return false
	}
	e := &r.events[i]
	if rule.categoryMax {
		if max, ok := r.catMax[e.Category]; ok && r.catCount[e.Category] >= max {
			return false
		}
	}
	if e.Category.Disaster() && r.disasters >= r.cfg.MaxNaturalDisasters {
		return false
	}
	if rule.totalCap && r.total >= r.cfg.MaxTotalEvents {
		return false
	}
	if rule.regionCeiling && r.region[i] != "" {
		if reg := r.regionIdx[r.region[i]]; reg != nil && r.regCount[r.region[i]] >= reg.TargetStories {
			return false
		}
	}
	return true
}

func (r *run) add(i int) {
	e := &r.events[i]
	r.selected[i] = true
	r.order = append(r.order, i)
	r.catCount[e.Category]++
	if reg := r.region[i]; reg != "" {
		r.regCount[reg]++
		r.pairCount[pairKey(e.Category, reg)]++
	}
	if e.Category.Disaster() {
		r.disasters++
	}
	r.total++
}

func pairKey(c event.Category, region string) string {
	return string(c) + "|" + region
}

// candidates returns unselected indexes passing keep, ordered descending by
// the given score with the cached priority as a stable tie-break.
func (r *run) candidates(keep func(int) bool, score func(int) float64) []int {
	var idx []int
	for i := range r.events {
		if !r.selected[i] && keep(i) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if score(idx[a]) != score(idx[b]) {
			return score(idx[a]) > score(idx[b])
		}
		return r.priority[idx[a]] > r.priority[idx[b]]
	})
	return idx
}

func (r *run) byPriority(i int) float64 { return r.priority[i] }
func (r *run) bySeverity(i int) float64 { return r.events[i].Severity }

// Stage 1: per category, up to MinCount highest-priority events.
func (r *run) fillCategoryMinimums() {
	for _, t := range r.cfg.Categories {
		if t.MinCount <= 0 {
			continue
		}
		cat := t.Category
		for _, i := range r.candidates(func(i int) bool { return r.events[i].Category == cat }, r.byPriority) {
			if r.catCount[cat] >= t.MinCount {
				break
			}
			if r.canAdd(i, admitRule{totalCap: true, categoryMax: true}) {
				r.add(i)
			}
		}
	}
}

// Stages 2 and 3: fill each region up to the given goal (MinStories, then
// TargetStories) with its highest-severity unselected events.
func (r *run) fillRegions(goal func(*Region) int) {
	for ri := range r.cfg.Regions {
		reg := &r.cfg.Regions[ri]
		want := goal(reg)
		if r.regCount[reg.Name] >= want {
			continue
		}
		for _, i := range r.candidates(func(i int) bool { return r.region[i] == reg.Name }, r.bySeverity) {
			if r.regCount[reg.Name] >= want {
				break
			}
			if r.canAdd(i, admitRule{totalCap: true, categoryMax: true}) {
				r.add(i)
			}
		}
	}
}

// Stage 4: every key category gets a presence floor in every region that has
// candidates, up to two events per (category, region) pair.
func (r *run) fillKeyCategoryFloors() {
	for _, cat := range keyCategories {
		for ri := range r.cfg.Regions {
			reg := r.cfg.Regions[ri].Name
			key := pairKey(cat, reg)
			if r.pairCount[key] > 0 {
				continue
			}
			for _, i := range r.candidates(func(i int) bool {
				return r.events[i].Category == cat && r.region[i] == reg
			}, r.byPriority) {
				if r.pairCount[key] >= keyCategoryPairMax {
					break
				}
				if r.canAdd(i, admitRule{regionCeiling: true, totalCap: true, categoryMax: true}) {
					r.add(i)
				}
			}
		}
	}
}

// Stage 5: entertainment slots prefer macro-regions not yet represented
// among selected entertainment events, then fall back to any remainder.
func (r *run) fillEntertainmentDiversity() {
	maxEnt, ok := r.catMax[event.CategoryEntertainment]
	if !ok || r.catCount[event.CategoryEntertainment] >= maxEnt {
		return
	}
	represented := make(map[string]struct{})
	for _, i := range r.order {
		if r.events[i].Category == event.CategoryEntertainment {
			e := &r.events[i]
			represented[macroRegion(e.Latitude, e.Longitude)] = struct{}{}
		}
	}
	isEnt := func(i int) bool { return r.events[i].Category == event.CategoryEntertainment }
	rule := admitRule{regionCeiling: true, totalCap: true, categoryMax: true}

	for _, i := range r.candidates(isEnt, r.byPriority) {
		if r.catCount[event.CategoryEntertainment] >= maxEnt {
			return
		}
		e := &r.events[i]
		mr := macroRegion(e.Latitude, e.Longitude)
		if _, seen := represented[mr]; seen {
			continue
		}
		if r.canAdd(i, rule) {
			r.add(i)
			represented[mr] = struct{}{}
		}
	}
	for _, i := range r.candidates(isEnt, r.byPriority) {
		if r.catCount[event.CategoryEntertainment] >= maxEnt {
			return
		}
		if r.canAdd(i, rule) {
			r.add(i)
		}
	}
}

// Stage 6: fill every category toward MaxCount.
func (r *run) fillCategoryMaximums() {
	for _, t := range r.cfg.Categories {
		cat := t.Category
		for _, i := range r.candidates(func(i int) bool { return r.events[i].Category == cat }, r.byPriority) {
			if r.catCount[cat] >= t.MaxCount {
				break
			}
			if r.canAdd(i, admitRule{regionCeiling: true, totalCap: true, categoryMax: true}) {
				r.add(i)
			}
		}
	}
}

// Stage 7: global top-up toward MaxTotalEvents.
func (r *run) fillGlobalTopUp() {
	for _, i := range r.candidates(func(int) bool { return true }, r.byPriority) {
		if r.total >= r.cfg.MaxTotalEvents {
			return
		}
		if r.canAdd(i, admitRule{regionCeiling: true, totalCap: true, categoryMax: true}) {
			r.add(i)
		}
	}
}

// Stage 8: every country observed in the input keeps at least one selected
// event. The floor is a hard guarantee: it may exceed MaxTotalEvents, the
// regional ceilings, and the category maxima. Only the disaster cap still
// binds here.
func (r *run) fillCountryFloors() {
	quotas := r.countryQuotas()
	keys := make([]string, 0, len(quotas))
	for k := range quotas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		q := quotas[k]
		if q.Current >= q.Min {
			continue
		}
		for _, i := range r.candidates(func(i int) bool { return r.countryMatches(i, k) }, r.bySeverity) {
			if q.Current >= q.Min {
				break
			}
			if r.canAdd(i, admitRule{}) {
				r.add(i)
				q.Current++
			}
		}
	}
}

// countryQuotas derives one quota per distinct country in the full input,
// keyed case-insensitively, with current counts taken from the selection.
func (r *run) countryQuotas() map[string]*CountryQuota {
	quotas := make(map[string]*CountryQuota)
	for i := range r.events {
		key := r.country[i]
		if key == "" {
			continue
		}
		if _, ok := quotas[key]; !ok {
			quotas[key] = &CountryQuota{
				Country: r.events[i].Country(),
				Min:     countryMin,
				Target:  countryTarget,
			}
		}
	}
	for _, i := range r.order {
		if q, ok := quotas[r.country[i]]; ok {
			q.Current++
		}
	}
	return quotas
}

// countryAliases maps a normalized country key to alternate names accepted
// during keyword matching.
var countryAliases = map[string][]string{
	"united states":  {"usa", "u.s.", "america", "us"},
	"united kingdom": {"uk", "britain", "england"},
	"south korea":    {"korea"},
	"netherlands":    {"holland"},
	"myanmar":        {"burma"},
	"czechia":        {"czech republic"},
}

// countryMatches accepts an exact meta-country match or the country name (or
// a known alias) appearing in the title or location text.
func (r *run) countryMatches(i int, key string) bool {
	if r.country[i] == key {
		return true
	}
	text := strings.ToLower(r.events[i].Title + " " + r.events[i].LocationName())
	if containsTerm(text, key) {
		return true
	}
	for _, alias := range countryAliases[key] {
		if containsTerm(text, alias) {
			return true
		}
	}
	return false
}

// containsTerm does a word-boundary substring test on lowercased text.
func containsTerm(text, term string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		beforeOK := idx == 0 || !isWordByte(text[idx-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
