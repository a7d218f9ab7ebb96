package config

import (
	"fmt"
	"strings"

	"github.com/atlaswire/curator/internal/event"
)

// Validate checks the config for:
//   - Unknown category tags and duplicate category or region entries
//   - Inverted or out-of-range bounds (min > max, coordinates off the globe)
//   - Thresholds outside (0, 1]
//
// All problems are reported at once.
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string
	cur := &cfg.Curation

	if cur.MaxTotalEvents < 0 {
		errs = append(errs, "curation: max_total_events must not be negative")
	}
	if cur.MaxNaturalDisasters < 0 {
		errs = append(errs, "curation: max_natural_disasters must not be negative")
	}
	if cur.TimelineMaxEvents < 0 {
		errs = append(errs, "curation: timeline_max_events must not be negative")
	}
	checkThreshold(&errs, "dedup_threshold_subject", cur.DedupThresholdSubject)
	checkThreshold(&errs, "dedup_threshold_strict", cur.DedupThresholdStrict)

	seenCat := make(map[string]struct{})
	for i, cc := range cur.Categories {
		loc := fmt.Sprintf("categories[%d]", i)
		if cc.Category == "" {
			errs = append(errs, loc+": category is required")
			continue
		}
		if !event.Category(cc.Category).Known() {
			errs = append(errs, fmt.Sprintf("%s: unknown category %q", loc, cc.Category))
		}
		if _, dup := seenCat[cc.Category]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate category %q", loc, cc.Category))
		}
		seenCat[cc.Category] = struct{}{}
		if cc.Min < 0 {
			errs = append(errs, fmt.Sprintf("category %s: min must not be negative", cc.Category))
		}
		if cc.Max < cc.Min {
			errs = append(errs, fmt.Sprintf("category %s: max %d is below min %d", cc.Category, cc.Max, cc.Min))
		}
	}

	seenReg := make(map[string]struct{})
	for i, rc := range cur.Regions {
		loc := fmt.Sprintf("regions[%d]", i)
		if rc.Name == "" {
			errs = append(errs, loc+": name is required")
			continue
		}
		if _, dup := seenReg[rc.Name]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate region %q", loc, rc.Name))
		}
		seenReg[rc.Name] = struct{}{}
		if rc.LatRange[0] > rc.LatRange[1] {
			errs = append(errs, fmt.Sprintf("region %s: lat_range is inverted", rc.Name))
		}
		if rc.LatRange[0] < -90 || rc.LatRange[1] > 90 {
			errs = append(errs, fmt.Sprintf("region %s: lat_range outside [-90,90]", rc.Name))
		}
		// An inverted lng_range is legal: it wraps the antimeridian.
		if rc.LngRange[0] < -180 || rc.LngRange[0] > 180 || rc.LngRange[1] < -180 || rc.LngRange[1] > 180 {
			errs = append(errs, fmt.Sprintf("region %s: lng_range outside [-180,180]", rc.Name))
		}
		if rc.MinStories < 0 {
			errs = append(errs, fmt.Sprintf("region %s: min_stories must not be negative", rc.Name))
		}
		if rc.TargetStories < rc.MinStories {
			errs = append(errs, fmt.Sprintf("region %s: target_stories %d is below min_stories %d", rc.Name, rc.TargetStories, rc.MinStories))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func checkThreshold(errs *[]string, name string, v float64) {
	if v < 0 || v > 1 {
		*errs = append(*errs, fmt.Sprintf("curation: %s must be within (0,1], got %v", name, v))
	}
}
