package event

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name         string
		in           Event
		wantCategory Category
		wantSeverity float64
	}{
		{
			name:         "unknown category falls back to other",
			in:           Event{ID: "a", Category: Category("gossip")},
			wantCategory: CategoryOther,
			wantSeverity: 5,
		},
		{
			name:         "empty category falls back to other",
			in:           Event{ID: "b"},
			wantCategory: CategoryOther,
			wantSeverity: 5,
		},
		{
			name:         "known values kept",
			in:           Event{ID: "c", Category: CategoryWildfire, Severity: 7.5},
			wantCategory: CategoryWildfire,
			wantSeverity: 7.5,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			Normalize(&tc.in)
			if tc.in.Category != tc.wantCategory {
				t.Errorf("category = %q, want %q", tc.in.Category, tc.wantCategory)
			}
			if tc.in.Severity != tc.wantSeverity {
				t.Errorf("severity = %v, want %v", tc.in.Severity, tc.wantSeverity)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      Event
		wantErr bool
	}{
		{name: "valid", in: Event{ID: "a", Latitude: 45, Longitude: -120, Timestamp: 1}},
		{name: "missing id", in: Event{Latitude: 0, Longitude: 0}, wantErr: true},
		{name: "latitude too high", in: Event{ID: "a", Latitude: 91}, wantErr: true},
		{name: "longitude too low", in: Event{ID: "a", Longitude: -181}, wantErr: true},
		{name: "negative timestamp", in: Event{ID: "a", Timestamp: -5}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(&tc.in)
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMetaAccessorsFromJSON(t *testing.T) {
	// encoding/json delivers numbers as float64; accessors must tolerate it.
	raw := `{
		"id": "e1", "title": "t", "category": "politics",
		"latitude": 1, "longitude": 2, "timestamp": 1700000000000,
		"meta": {
			"country": "Chile", "location": "Santiago",
			"url": "https://example.com/a/b",
			"source_tier": 1, "ongoing": true, "article_count": 12
		}
	}`
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Country() != "Chile" {
		t.Errorf("Country = %q", e.Country())
	}
	if e.LocationName() != "Santiago" {
		t.Errorf("LocationName = %q", e.LocationName())
	}
	if e.URL() != "https://example.com/a/b" {
		t.Errorf("URL = %q", e.URL())
	}
	if e.SourceTier() != 1 {
		t.Errorf("SourceTier = %d", e.SourceTier())
	}
	if !e.Ongoing() {
		t.Error("Ongoing = false")
	}
	if e.ArticleCount() != 12 {
		t.Errorf("ArticleCount = %d", e.ArticleCount())
	}
}

func TestMilestoneProjection(t *testing.T) {
	e := Event{
		ID: "e1", Title: "headline", Severity: 6.5, Source: "wire",
		Timestamp: 1700000000000,
		Meta:      map[string]interface{}{"url": "https://example.com/x", "location": "Oslo"},
	}
	m := Milestone(&e)
	if m.ID != "e1" || m.Title != "headline" || m.Timestamp != e.Timestamp {
		t.Errorf("projection mismatch: %+v", m)
	}
	if m.URL != "https://example.com/x" || m.Location != "Oslo" {
		t.Errorf("optional fields not projected: %+v", m)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	e := Event{Timestamp: now.Add(-3 * time.Hour).UnixMilli()}
	if got := e.Age(now); got != 3*time.Hour {
		t.Errorf("Age = %v, want 3h", got)
	}
	future := Event{Timestamp: now.Add(time.Hour).UnixMilli()}
	if got := future.Age(now); got != 0 {
		t.Errorf("future Age = %v, want 0", got)
	}
}
