package curate

// Region is an axis-aligned lat/lng box used to balance geographic coverage.
// A LngMin greater than LngMax means the range wraps the antimeridian and is
// tested as two disjoint sub-ranges.
type Region struct {
	Name          string
	LatMin        float64
	LatMax        float64
	LngMin        float64
	LngMax        float64
	Weight        float64
	MinStories    int
	TargetStories int
}

// Contains reports whether the point lies inside the region's box.
func (r *Region) Contains(lat, lng float64) bool {
	if lat < r.LatMin || lat > r.LatMax {
		return false
	}
	if r.LngMin > r.LngMax {
		// Wrapped range, e.g. 100..-120 covers the Pacific across ±180.
		return lng >= r.LngMin || lng <= r.LngMax
	}
	return lng >= r.LngMin && lng <= r.LngMax
}

// DefaultRegions is the shipped six-region partition. Boxes overlap near
// Europe/Middle East/Africa; membership is resolved by first match in table
// order. Asia-Pacific wraps the antimeridian.
var DefaultRegions = []Region{
	{Name: "north-america", LatMin: 15, LatMax: 72, LngMin: -168, LngMax: -52, Weight: 1.0, MinStories: 8, TargetStories: 30},
	{Name: "south-america", LatMin: -56, LatMax: 15, LngMin: -82, LngMax: -34, Weight: 0.8, MinStories: 5, TargetStories: 20},
	{Name: "europe", LatMin: 36, LatMax: 71, LngMin: -10, LngMax: 40, Weight: 1.0, MinStories: 8, TargetStories: 30},
	{Name: "middle-east", LatMin: 12, LatMax: 42, LngMin: 26, LngMax: 63, Weight: 0.9, MinStories: 5, TargetStories: 18},
	{Name: "africa", LatMin: -35, LatMax: 37, LngMin: -18, LngMax: 52, Weight: 0.8, MinStories: 5, TargetStories: 20},
	{Name: "asia-pacific", LatMin: -50, LatMax: 72, LngMin: 63, LngMax: -120, Weight: 1.0, MinStories: 8, TargetStories: 32},
}

// macroRegion is the coarse legacy partition used only by the entertainment
// diversity pass. It is a pure lat/lng band split, deliberately distinct
// from the quota regions above.
func macroRegion(lat, lng float64) string {
	switch {
	case lng >= -170 && lng < -30:
		if lat >= 12 {
			return "north-america"
		}
		return "latin-america"
	case lng >= -30 && lng < 60:
		if lat >= 35 {
			return "europe"
		}
		return "africa-middle-east"
	default:
		if lat < -10 {
			return "oceania"
		}
		return "asia"
	}
}
