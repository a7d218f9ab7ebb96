package dedup

import (
	"testing"
	"time"

	"github.com/atlaswire/curator/internal/event"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ev(id, title string, age time.Duration, lat, lng, severity float64) event.Event {
	return event.Event{
		ID:        id,
		Title:     title,
		Category:  event.CategoryOther,
		Severity:  severity,
		Latitude:  lat,
		Longitude: lng,
		Timestamp: testNow.Add(-age).UnixMilli(),
	}
}

func TestSameSubject(t *testing.T) {
	d := New(0, 0)
	cases := []struct {
		name string
		a, b event.Event
		want bool
	}{
		{
			name: "shared title keywords",
			a:    ev("a", "Magnitude 6.2 quake strikes Chile", time.Hour, -33.4, -70.6, 7),
			b:    ev("b", "6.2-magnitude earthquake hits Chile", 2*time.Hour, -33.5, -70.7, 6),
			want: true,
		},
		{
			name: "near identical titles",
			a:    ev("a", "Fed cuts rates, markets rally", time.Hour, 40.7, -74.0, 5),
			b:    ev("b", "Fed cuts rates - markets rally", 2*time.Hour, 51.5, -0.1, 5),
			want: true,
		},
		{
			name: "same time and place",
			a:    ev("a", "Bridge closure announced", time.Hour, 40.7, -74.0, 4),
			b:    ev("b", "Commuters face lengthy detours", 3*time.Hour, 40.8, -74.1, 4),
			want: true,
		},
		{
			name: "unrelated, far apart",
			a:    ev("a", "Magnitude 6.2 quake strikes Chile", time.Hour, -33.4, -70.6, 7),
			b:    ev("b", "Unrelated wildfire in California", 2*time.Hour, 38.5, -121.5, 6),
			want: false,
		},
		{
			name: "same place a week apart",
			a:    ev("a", "Harbor festival opens", time.Hour, 40.7, -74.0, 3),
			b:    ev("b", "Subway line extension approved", 8*24*time.Hour, 40.7, -74.0, 3),
			want: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.SameSubject(&tc.a, &tc.b); got != tc.want {
				t.Errorf("SameSubject = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeduplicateKeepsBestRepresentative(t *testing.T) {
	d := New(0, 0)
	quakeA := ev("quake-a", "Magnitude 6.2 quake strikes Chile", time.Hour, -33.4, -70.6, 7)
	quakeB := ev("quake-b", "6.2-magnitude earthquake hits Chile", 2*time.Hour, -33.5, -70.7, 5)
	fire := ev("fire", "Unrelated wildfire in California", 2*time.Hour, 38.5, -121.5, 6)

	out := d.Deduplicate([]event.Event{quakeB, fire, quakeA}, testNow)
	if len(out) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(out), out)
	}
	ids := map[string]bool{}
	for _, e := range out {
		ids[e.ID] = true
	}
	if !ids["quake-a"] {
		t.Error("expected the higher-composite quake representative to survive")
	}
	if !ids["fire"] {
		t.Error("expected the unrelated wildfire to survive")
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	d := New(0, 0)
	list := []event.Event{
		ev("a", "Magnitude 6.2 quake strikes Chile", time.Hour, -33.4, -70.6, 7),
		ev("b", "6.2-magnitude earthquake hits Chile", 2*time.Hour, -33.5, -70.7, 5),
		ev("c", "Unrelated wildfire in California", 2*time.Hour, 38.5, -121.5, 6),
		ev("d", "Parliament passes budget bill", 5*time.Hour, 59.9, 10.7, 6),
	}
	once := d.Deduplicate(list, testNow)
	twice := d.Deduplicate(once, testNow)
	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("dedup not idempotent at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	d := New(0, 0)
	if out := d.Deduplicate(nil, testNow); len(out) != 0 {
		t.Errorf("expected empty output, got %d", len(out))
	}
}

func TestDeduplicateByTitle(t *testing.T) {
	d := New(0, 0)

	t.Run("newer duplicate replaces accepted", func(t *testing.T) {
		older := ev("old", "Fed cuts rates, markets rally", 5*time.Hour, 40.7, -74.0, 8)
		newer := ev("new", "Fed cuts rates - markets rally", time.Hour, 40.7, -74.0, 3)
		out := d.DeduplicateByTitle([]event.Event{older, newer})
		if len(out) != 1 {
			t.Fatalf("got %d events, want 1", len(out))
		}
		if out[0].ID != "new" {
			t.Errorf("kept %s, want the more recent duplicate", out[0].ID)
		}
	})

	t.Run("timestamp tie keeps higher severity", func(t *testing.T) {
		a := ev("low", "Fed cuts rates, markets rally", time.Hour, 40.7, -74.0, 3)
		b := ev("high", "Fed cuts rates - markets rally", time.Hour, 40.7, -74.0, 8)
		out := d.DeduplicateByTitle([]event.Event{a, b})
		if len(out) != 1 || out[0].ID != "high" {
			t.Fatalf("got %+v, want the higher-severity duplicate", out)
		}
	})

	t.Run("url path is an independent signal", func(t *testing.T) {
		a := ev("a", "Completely different headline", 2*time.Hour, 40.7, -74.0, 5)
		b := ev("b", "Another angle on the story", time.Hour, 40.7, -74.0, 5)
		a.Meta = map[string]interface{}{"url": "https://mirror-one.example/news/2025/rate-cut"}
		b.Meta = map[string]interface{}{"url": "https://mirror-two.example/news/2025/rate-cut"}
		out := d.DeduplicateByTitle([]event.Event{a, b})
		if len(out) != 1 {
			t.Fatalf("got %d events, want 1 (same URL path)", len(out))
		}
	})

	t.Run("distinct stories survive", func(t *testing.T) {
		a := ev("a", "Severe drought grips southern farmland", time.Hour, 40.7, -74.0, 5)
		b := ev("b", "Parliament passes budget bill", time.Hour, 59.9, 10.7, 5)
		out := d.DeduplicateByTitle([]event.Event{a, b})
		if len(out) != 2 {
			t.Fatalf("got %d events, want 2", len(out))
		}
	})
}
