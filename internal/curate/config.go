package curate

import (
	"time"

	"github.com/atlaswire/curator/internal/event"
	"github.com/atlaswire/curator/internal/scoring"
)

const (
	// DefaultMaxTotalEvents caps the curated feed (the country floor may
	// exceed it, see stage 8).
	DefaultMaxTotalEvents = 150
	// DefaultMaxNaturalDisasters caps disaster-category admissions across
	// all seven disaster categories combined.
	DefaultMaxNaturalDisasters = 10

	countryMin    = 1
	countryTarget = 2
)

// CategoryTarget bounds how many events of one category the feed carries.
// Priority breaks ties when filling is resource-constrained.
type CategoryTarget struct {
	Category event.Category
	MinCount int
	MaxCount int
	Priority int
}

// DefaultCategoryTargets is the shipped per-category quota table.
var DefaultCategoryTargets = []CategoryTarget{
	{Category: event.CategoryPolitics, MinCount: 5, MaxCount: 20, Priority: 10},
	{Category: event.CategoryBusiness, MinCount: 4, MaxCount: 15, Priority: 9},
	{Category: event.CategoryTechnology, MinCount: 3, MaxCount: 12, Priority: 8},
	{Category: event.CategorySports, MinCount: 2, MaxCount: 10, Priority: 5},
	{Category: event.CategoryEntertainment, MinCount: 2, MaxCount: 8, Priority: 4},
	{Category: event.CategoryHealth, MinCount: 3, MaxCount: 10, Priority: 7},
	{Category: event.CategoryScience, MinCount: 2, MaxCount: 8, Priority: 6},
	{Category: event.CategoryMilitary, MinCount: 2, MaxCount: 10, Priority: 9},
	{Category: event.CategoryCrime, MinCount: 2, MaxCount: 8, Priority: 6},
	{Category: event.CategoryCulture, MinCount: 1, MaxCount: 6, Priority: 3},
	{Category: event.CategoryClimate, MinCount: 2, MaxCount: 8, Priority: 7},
	{Category: event.CategoryEarthquake, MinCount: 1, MaxCount: 5, Priority: 9},
	{Category: event.CategoryWildfire, MinCount: 1, MaxCount: 5, Priority: 8},
	{Category: event.CategoryFlood, MinCount: 1, MaxCount: 5, Priority: 8},
	{Category: event.CategoryHurricane, MinCount: 1, MaxCount: 4, Priority: 8},
	{Category: event.CategoryTornado, MinCount: 1, MaxCount: 3, Priority: 7},
	{Category: event.CategoryVolcano, MinCount: 0, MaxCount: 3, Priority: 6},
	{Category: event.CategoryTsunami, MinCount: 0, MaxCount: 3, Priority: 9},
	{Category: event.CategoryOther, MinCount: 2, MaxCount: 10, Priority: 2},
}

// keyCategories get a per-region presence floor (stage 4).
var keyCategories = []event.Category{
	event.CategoryPolitics,
	event.CategoryBusiness,
	event.CategoryTechnology,
	event.CategorySports,
	event.CategoryEntertainment,
}

// Config carries the full allocation surface with the documented defaults.
type Config struct {
	Categories          []CategoryTarget
	Regions             []Region
	MaxTotalEvents      int
	MaxNaturalDisasters int

	// PriorityKey orders candidates within every stage. The default,
	// severity*10 + ageInHours, rises with age at equal severity; that is
	// the documented composite and is kept rather than inverted.
	PriorityKey func(*event.Event, time.Time) float64
}

// DefaultConfig returns the shipped allocation configuration.
func DefaultConfig() Config {
	return Config{
		Categories:          DefaultCategoryTargets,
		Regions:             DefaultRegions,
		MaxTotalEvents:      DefaultMaxTotalEvents,
		MaxNaturalDisasters: DefaultMaxNaturalDisasters,
		PriorityKey:         scoring.Priority,
	}
}

// withDefaults fills zero-valued fields so a partially specified Config
// behaves like DefaultConfig for the unset parts.
func (c Config) withDefaults() Config {
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategoryTargets
	}
	if len(c.Regions) == 0 {
		c.Regions = DefaultRegions
	}
	if c.MaxTotalEvents == 0 {
		c.MaxTotalEvents = DefaultMaxTotalEvents
	}
	if c.MaxNaturalDisasters == 0 {
		c.MaxNaturalDisasters = DefaultMaxNaturalDisasters
	}
	if c.PriorityKey == nil {
		c.PriorityKey = scoring.Priority
	}
	return c
}
