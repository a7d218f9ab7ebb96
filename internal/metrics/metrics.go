package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curator_events_received_total",
		Help: "Total number of events handed to the curation engine.",
	})

	DuplicatesCollapsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curator_duplicates_collapsed_total",
		Help: "Total number of events dropped as near-duplicates before allocation.",
	})

	EventsSelected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curator_events_selected_total",
		Help: "Total number of events admitted to the curated feed, labelled by category.",
	}, []string{"category"})

	TimelinesSampled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curator_timelines_sampled_total",
		Help: "Total number of topic timelines produced.",
	})

	TimelineMilestones = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "curator_timeline_milestones",
		Help:    "Milestones per sampled timeline.",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 40},
	})

	CurationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "curator_curation_duration_ms",
		Help:    "End-to-end dedup plus allocation latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	ConfigReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curator_config_reloads_total",
		Help: "Total number of configuration reloads, labelled by status.",
	}, []string{"status"})

	BatchUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "curator_batch_queue_utilization_ratio",
		Help: "Current timeline batch queue utilization (0–1).",
	})
)
