package scoring

import (
	"testing"
	"time"

	"github.com/atlaswire/curator/internal/event"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ev(cat event.Category, age time.Duration, title, desc string, meta map[string]interface{}) *event.Event {
	return &event.Event{
		ID:          "e1",
		Title:       title,
		Description: desc,
		Category:    cat,
		Timestamp:   testNow.Add(-age).UnixMilli(),
		Meta:        meta,
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		name string
		e    *event.Event
		want float64
	}{
		{
			name: "everything stacks then clamps at ten",
			e: ev(event.CategoryEarthquake, time.Hour,
				"Devastating earthquake levels city center",
				"Thousands killed, rescue ongoing",
				map[string]interface{}{"source_tier": 1, "ongoing": true, "article_count": 12}),
			want: 10,
		},
		{
			name: "stale low tier sports",
			e: ev(event.CategorySports, 8*24*time.Hour,
				"Local team wins friendly", "",
				map[string]interface{}{"source_tier": 3}),
			want: 0.5, // base 2, -1 stale, -0.5 tier 3
		},
		{
			name: "technology same day",
			e:    ev(event.CategoryTechnology, 12*time.Hour, "Chipmaker ships new processor", "", nil),
			want: 5, // base 4, +1 under 24h
		},
		{
			name: "two multi-region cues",
			e: ev(event.CategoryBusiness, 2*time.Hour,
				"Global markets slide as international trade tensions rise", "", nil),
			want: 8, // base 5, +2 fresh, +1 multi-region
		},
		{
			name: "notable beats nothing, critical beats notable",
			e: ev(event.CategoryPolitics, 2*time.Hour,
				"Critical vote follows major breaking dispute", "", nil),
			want: 10, // base 6, +2 fresh, +2 critical (notable not double-counted)
		},
		{
			name: "unknown category gets mid base",
			e:    ev(event.Category("rumor"), 48*time.Hour, "Quiet day", "", nil),
			want: 5,
		},
		{
			name: "five corroborating articles",
			e: ev(event.CategoryCulture, 48*time.Hour, "Museum reopens", "",
				map[string]interface{}{"article_count": 5}),
			want: 3.5, // base 3, +0.5 corroboration
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.e, testNow)
			if got != tc.want {
				t.Errorf("Score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreBoundsAndDeterminism(t *testing.T) {
	events := []*event.Event{
		ev(event.CategoryTsunami, time.Minute, "Catastrophic tsunami, thousands displaced across countries and regions", "massive emergency",
			map[string]interface{}{"source_tier": 1, "ongoing": true, "article_count": 50}),
		ev(event.CategorySports, 30*24*time.Hour, "old result", "", map[string]interface{}{"source_tier": 3}),
		ev(event.CategoryOther, 0, "", "", nil),
	}
	for _, e := range events {
		first := Score(e, testNow)
		if first < 0 || first > 10 {
			t.Errorf("Score(%q) = %v outside [0,10]", e.Title, first)
		}
		if again := Score(e, testNow); again != first {
			t.Errorf("Score(%q) not deterministic: %v then %v", e.Title, first, again)
		}
	}
}

func TestPriorityFavorsOlderAtEqualSeverity(t *testing.T) {
	older := ev(event.CategoryPolitics, 48*time.Hour, "a", "", nil)
	newer := ev(event.CategoryPolitics, time.Hour, "b", "", nil)
	older.Severity, newer.Severity = 5, 5
	if Priority(older, testNow) <= Priority(newer, testNow) {
		t.Error("documented composite must rank the older event higher at equal severity")
	}
}
