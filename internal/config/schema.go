package config

import (
	"github.com/atlaswire/curator/internal/curate"
	"github.com/atlaswire/curator/internal/event"
)

// Config is the top-level YAML structure.
type Config struct {
	Version  string       `yaml:"version"`
	Curation CurationConf `yaml:"curation"`
}

// CurationConf holds every tunable the engine exposes. Zero values mean
// "use the documented default"; the loader fills them in.
type CurationConf struct {
	MaxTotalEvents        int     `yaml:"max_total_events"`
	MaxNaturalDisasters   int     `yaml:"max_natural_disasters"`
	DedupThresholdSubject float64 `yaml:"dedup_threshold_subject"`
	DedupThresholdStrict  float64 `yaml:"dedup_threshold_strict"`
	TimelineMaxEvents     int     `yaml:"timeline_max_events"`

	Categories []CategoryConf `yaml:"categories"`
	Regions    []RegionConf   `yaml:"regions"`
}

// CategoryConf is one per-category quota entry.
type CategoryConf struct {
	Category string `yaml:"category"`
	Min      int    `yaml:"min"`
	Max      int    `yaml:"max"`
	Priority int    `yaml:"priority"`
}

// RegionConf is one balancing region. LngRange with first > second wraps
// the antimeridian.
type RegionConf struct {
	Name          string     `yaml:"name"`
	LatRange      [2]float64 `yaml:"lat_range"`
	LngRange      [2]float64 `yaml:"lng_range"`
	Weight        float64    `yaml:"weight"`
	MinStories    int        `yaml:"min_stories"`
	TargetStories int        `yaml:"target_stories"`
}

// Allocation converts the YAML surface into the allocator's configuration.
// Empty tables fall through to the shipped defaults.
func (c *CurationConf) Allocation() curate.Config {
	cfg := curate.Config{
		MaxTotalEvents:      c.MaxTotalEvents,
		MaxNaturalDisasters: c.MaxNaturalDisasters,
	}
	for _, cc := range c.Categories {
		cfg.Categories = append(cfg.Categories, curate.CategoryTarget{
			Category: event.Category(cc.Category),
			MinCount: cc.Min,
			MaxCount: cc.Max,
			Priority: cc.Priority,
		})
	}
	for _, rc := range c.Regions {
		cfg.Regions = append(cfg.Regions, curate.Region{
			Name:          rc.Name,
			LatMin:        rc.LatRange[0],
			LatMax:        rc.LatRange[1],
			LngMin:        rc.LngRange[0],
			LngMax:        rc.LngRange[1],
			Weight:        rc.Weight,
			MinStories:    rc.MinStories,
			TargetStories: rc.TargetStories,
		})
	}
	return cfg
}
