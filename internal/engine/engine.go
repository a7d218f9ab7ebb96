// Package engine is the facade over the curation pipeline: normalize and
// rescore the input, collapse duplicates, then either run the quota
// allocator (curated feed) or the timeline sampler (per-topic story arc).
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/atlaswire/curator/internal/config"
	"github.com/atlaswire/curator/internal/curate"
	"github.com/atlaswire/curator/internal/dedup"
	"github.com/atlaswire/curator/internal/event"
	"github.com/atlaswire/curator/internal/metrics"
	"github.com/atlaswire/curator/internal/scoring"
	"github.com/atlaswire/curator/internal/timeline"
)

// pipeline bundles the components built from one configuration snapshot.
// Swapped atomically on hot-reload; in-flight calls keep their snapshot.
type pipeline struct {
	alloc   *curate.Allocator
	dd      *dedup.Deduplicator
	sampler *timeline.Sampler
}

// Engine is safe for concurrent use: every call derives its result from its
// own input list plus the immutable pipeline snapshot.
type Engine struct {
	current   atomic.Pointer[pipeline]
	topicPool *workerPool[topicWork, topicResult]

	// Now is the reference-time source, overridable in tests.
	Now func() time.Time
}

type topicWork struct {
	topic  string
	events []event.Event
}

type topicResult struct {
	topic      string
	milestones []event.TimelineEvent
	err        error
}

// Conf holds the engine's own tunables, distinct from the curation surface.
type Conf struct {
	TopicWorkers int
	QueueDepth   int
}

// New builds an Engine from cfg and starts the topic worker pool.
func New(ctx context.Context, cfg *config.Config, conf Conf) *Engine {
	if conf.TopicWorkers <= 0 {
		conf.TopicWorkers = 8
	}
	if conf.QueueDepth <= 0 {
		conf.QueueDepth = 256
	}
	e := &Engine{Now: time.Now}
	e.current.Store(buildPipeline(cfg))
	e.topicPool = newWorkerPool(ctx, conf.TopicWorkers, conf.QueueDepth,
		func(_ context.Context, w topicWork) topicResult {
			milestones, err := e.Timeline(w.events)
			return topicResult{topic: w.topic, milestones: milestones, err: err}
		})
	return e
}

func buildPipeline(cfg *config.Config) *pipeline {
	cur := &cfg.Curation
	dd := dedup.New(cur.DedupThresholdSubject, cur.DedupThresholdStrict)
	return &pipeline{
		alloc:   curate.New(cur.Allocation()),
		dd:      dd,
		sampler: timeline.New(cur.TimelineMaxEvents, dd),
	}
}

// SwapConfig atomically replaces the pipeline (used on hot-reload).
func (e *Engine) SwapConfig(cfg *config.Config) {
	e.current.Store(buildPipeline(cfg))
}

// Curate runs the full feed pipeline: normalize, rescore, deduplicate by
// subject, then allocate against the quota tables.
func (e *Engine) Curate(events []event.Event) ([]event.Event, error) {
	start := time.Now()
	now := e.Now()
	p := e.current.Load()

	metrics.EventsReceived.Add(float64(len(events)))
	prepared, err := e.prepare(events, now)
	if err != nil {
		return nil, err
	}

	deduped := p.dd.Deduplicate(prepared, now)
	metrics.DuplicatesCollapsed.Add(float64(len(prepared) - len(deduped)))

	selected := p.alloc.Allocate(deduped, now)
	for i := range selected {
		metrics.EventsSelected.WithLabelValues(string(selected[i].Category)).Inc()
	}
	metrics.CurationDuration.Observe(float64(time.Since(start).Milliseconds()))
	return selected, nil
}

// Deduplicate exposes the subject-level pass on its own.
func (e *Engine) Deduplicate(events []event.Event) ([]event.Event, error) {
	now := e.Now()
	prepared, err := e.prepare(events, now)
	if err != nil {
		return nil, err
	}
	return e.current.Load().dd.Deduplicate(prepared, now), nil
}

// Score returns the severity heuristic for a single event.
func (e *Engine) Score(ev *event.Event) float64 {
	event.Normalize(ev)
	return scoring.Score(ev, e.Now())
}

// Timeline samples one topic's milestones.
func (e *Engine) Timeline(events []event.Event) ([]event.TimelineEvent, error) {
	now := e.Now()
	p := e.current.Load()
	prepared, err := e.prepare(events, now)
	if err != nil {
		return nil, err
	}
	out := p.sampler.Sample(prepared, now)
	metrics.TimelinesSampled.Inc()
	metrics.TimelineMilestones.Observe(float64(len(out)))
	return out, nil
}

// TimelineBatch fans one sampler call per topic across the worker pool.
// Topics share no state, so the fan-out needs no coordination beyond the
// result channel. Returns an error when the queue cannot absorb the batch.
func (e *Engine) TimelineBatch(ctx context.Context, topics map[string][]event.Event) (map[string][]event.TimelineEvent, error) {
	out := make(map[string][]event.TimelineEvent, len(topics))
	if len(topics) == 0 {
		return out, nil
	}
	results := make(chan topicResult, len(topics))
	submitted := 0
	for topic, events := range topics {
		if !e.topicPool.Submit(topicWork{topic: topic, events: events}, results) {
			return nil, fmt.Errorf("timeline batch queue full (capacity %d)", e.topicPool.QueueCap())
		}
		submitted++
	}
	var firstErr error
	for i := 0; i < submitted; i++ {
		select {
		case res := <-results:
			if res.err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("topic %s: %w", res.topic, res.err)
				}
				continue
			}
			out[res.topic] = res.milestones
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// QueueUtilization returns batch queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.topicPool.QueueCap() == 0 {
		return 0
	}
	return float64(e.topicPool.QueueLen()) / float64(e.topicPool.QueueCap())
}

// prepare validates, normalizes, and rescores a fresh copy of the input.
// A record that fails validation is a caller-side contract violation.
func (e *Engine) prepare(events []event.Event, now time.Time) ([]event.Event, error) {
	prepared := make([]event.Event, len(events))
	copy(prepared, events)
	for i := range prepared {
		ev := &prepared[i]
		if err := event.Validate(ev); err != nil {
			return nil, err
		}
		event.Normalize(ev)
		ev.Severity = scoring.Score(ev, now)
	}
	return prepared, nil
}

// Shutdown drains the topic pool gracefully.
func (e *Engine) Shutdown() {
	e.topicPool.Drain()
}
