package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atlaswire/curator/internal/config"
	"github.com/atlaswire/curator/internal/engine"
	"github.com/atlaswire/curator/internal/event"
	"github.com/atlaswire/curator/internal/metrics"
)

const maxBatchTopics = 100

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/curate", h.curate)
	h.mux.HandleFunc("POST /v1/timeline", h.timelineSingle)
	h.mux.HandleFunc("POST /v1/timeline/batch", h.timelineBatch)
	h.mux.HandleFunc("GET /v1/config", h.getConfig)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// decodeEvents reads a JSON event list and assigns IDs where missing.
func decodeEvents(r *http.Request) ([]event.Event, error) {
	var events []event.Event
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("invalid JSON: %s", err)
	}
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.New().String()
		}
	}
	return events, nil
}

// POST /v1/curate — balanced feed from a raw event list.
func (h *Handler) curate(w http.ResponseWriter, r *http.Request) {
	events, err := decodeEvents(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	selected, err := h.eng.Curate(events)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"received": len(events),
		"selected": len(selected),
		"events":   selected,
	})
}

// POST /v1/timeline — milestones for one topic's event list.
func (h *Handler) timelineSingle(w http.ResponseWriter, r *http.Request) {
	events, err := decodeEvents(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	milestones, err := h.eng.Timeline(events)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"received":   len(events),
		"milestones": milestones,
	})
}

// POST /v1/timeline/batch — one timeline per topic (up to 100 topics).
func (h *Handler) timelineBatch(w http.ResponseWriter, r *http.Request) {
	var topics map[string][]event.Event
	if err := json.NewDecoder(r.Body).Decode(&topics); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if len(topics) == 0 {
		writeError(w, http.StatusBadRequest, "batch must contain at least one topic")
		return
	}
	if len(topics) > maxBatchTopics {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch size %d exceeds max %d", len(topics), maxBatchTopics))
		return
	}
	for topic, events := range topics {
		for i := range events {
			if events[i].ID == "" {
				events[i].ID = uuid.New().String()
			}
		}
		topics[topic] = events
	}

	out, err := h.eng.TimelineBatch(r.Context(), topics)
	if err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":    uuid.New().String(),
		"topics":    len(out),
		"timelines": out,
	})
}

// GET /v1/config — current curation configuration.
func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.loader.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":  cfg.Version,
		"curation": cfg.Curation,
	})
}

// POST /v1/config/reload — hot-reload the curation config from disk.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		metrics.ConfigReloads.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := config.Validate(cfg); err != nil {
		metrics.ConfigReloads.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.eng.SwapConfig(cfg)
	metrics.ConfigReloads.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":   true,
		"categories": len(cfg.Curation.Categories),
		"regions":    len(cfg.Curation.Regions),
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the timeline batch queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.BatchUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
