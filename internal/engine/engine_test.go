package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/atlaswire/curator/internal/config"
	"github.com/atlaswire/curator/internal/event"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	e := New(ctx, config.Default(), Conf{TopicWorkers: 4, QueueDepth: 64})
	e.Now = func() time.Time { return testNow }
	return e
}

var (
	sampleAdjectives = []string{
		"quantum", "solar", "arctic", "coastal", "federal", "municipal",
		"orbital", "thermal", "digital", "mineral", "agrarian", "monetary",
		"judicial", "maritime", "alpine", "tropical", "nuclear", "fiscal",
		"electoral", "industrial",
	}
	sampleNouns = []string{
		"tariff", "pipeline", "treaty", "subsidy", "quota", "census",
		"reservoir", "corridor", "exchange", "satellite",
	}
)

// sampleEvents builds n events whose titles share at most one significant
// keyword pairwise, so none of them count as the same subject.
func sampleEvents(n int, category event.Category) []event.Event {
	events := make([]event.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, event.Event{
			ID:        fmt.Sprintf("e%03d", i),
			Title:     fmt.Sprintf("%s %s", sampleAdjectives[i%20], sampleNouns[(i/20)%10]),
			Category:  category,
			Latitude:  float64(i%50) - 25,
			Longitude: float64(i*3%300) - 150,
			Timestamp: testNow.Add(-time.Duration(i+1) * time.Hour).UnixMilli(),
			Meta:      map[string]interface{}{"country": "Testland"},
		})
	}
	return events
}

func TestCurateRecomputesSeverityAndNormalizes(t *testing.T) {
	e := newTestEngine(t)
	events := []event.Event{{
		ID:        "x1",
		Title:     "Unlabeled dispatch",
		Category:  event.Category("telegram"), // not a known tag
		Latitude:  10,
		Longitude: 10,
		Timestamp: testNow.Add(-time.Hour).UnixMilli(),
	}}
	out, err := e.Curate(events)
	if err != nil {
		t.Fatalf("Curate error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d events, want 1", len(out))
	}
	if out[0].Category != event.CategoryOther {
		t.Errorf("category = %q, want fallback %q", out[0].Category, event.CategoryOther)
	}
	if out[0].Severity <= 0 {
		t.Errorf("severity = %v, want recomputed positive score", out[0].Severity)
	}
	if events[0].Severity != 0 {
		t.Error("input slice must not be mutated")
	}
}

func TestCurateRejectsInvalidCoordinates(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Curate([]event.Event{{
		ID:        "bad",
		Title:     "off the globe",
		Category:  event.CategoryOther,
		Latitude:  123, // invalid
		Longitude: 10,
		Timestamp: testNow.UnixMilli(),
	}})
	if err == nil {
		t.Fatal("expected a contract-violation error for latitude 123")
	}
}

func TestCurateEmptyInput(t *testing.T) {
	e := newTestEngine(t)
	out, err := e.Curate(nil)
	if err != nil {
		t.Fatalf("Curate error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d events, want 0", len(out))
	}
}

func TestTimelineBatch(t *testing.T) {
	e := newTestEngine(t)
	topics := make(map[string][]event.Event, 20)
	for i := 0; i < 20; i++ {
		topics[fmt.Sprintf("topic-%d", i)] = sampleEvents(15, event.CategoryPolitics)
	}
	out, err := e.TimelineBatch(context.Background(), topics)
	if err != nil {
		t.Fatalf("TimelineBatch error: %v", err)
	}
	if len(out) != 20 {
		t.Fatalf("got %d topics, want 20", len(out))
	}
	for topic, milestones := range out {
		if len(milestones) == 0 {
			t.Errorf("topic %s: empty timeline", topic)
		}
		for i := 1; i < len(milestones); i++ {
			if milestones[i].Timestamp < milestones[i-1].Timestamp {
				t.Errorf("topic %s: milestones out of order", topic)
			}
		}
	}
}

func TestTimelineBatchEmpty(t *testing.T) {
	e := newTestEngine(t)
	out, err := e.TimelineBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("TimelineBatch error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d topics, want 0", len(out))
	}
}

func TestSwapConfigTakesEffect(t *testing.T) {
	e := newTestEngine(t)
	cfg := config.Default()
	cfg.Curation.TimelineMaxEvents = 5
	e.SwapConfig(cfg)

	out, err := e.Timeline(sampleEvents(100, event.CategoryPolitics))
	if err != nil {
		t.Fatalf("Timeline error: %v", err)
	}
	if len(out) > 5 {
		t.Errorf("got %d milestones, want at most the reloaded cap of 5", len(out))
	}
}

// Concurrent Curate calls on independent inputs share no state.
func TestCurateConcurrent(t *testing.T) {
	e := newTestEngine(t)
	done := make(chan error, 8)
	for g := 0; g < 8; g++ {
		go func() {
			_, err := e.Curate(sampleEvents(60, event.CategoryBusiness))
			done <- err
		}()
	}
	for g := 0; g < 8; g++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Curate error: %v", err)
		}
	}
}
