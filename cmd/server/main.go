package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlaswire/curator/internal/api"
	"github.com/atlaswire/curator/internal/config"
	"github.com/atlaswire/curator/internal/engine"
	"github.com/atlaswire/curator/internal/metrics"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "configs/curation.yaml", "Path to curation YAML config")
	topicWorkers := flag.Int("topic-workers", 8, "Concurrent timeline samplers for batch requests")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"categories", len(cfg.Curation.Categories),
		"regions", len(cfg.Curation.Regions),
		"max_total", cfg.Curation.MaxTotalEvents)

	// ── Engine ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ctx, cfg, engine.Conf{TopicWorkers: *topicWorkers})

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		if err := config.Validate(newCfg); err != nil {
			metrics.ConfigReloads.WithLabelValues("invalid").Inc()
			slog.Warn("hot-reload skipped: config invalid", "err", err)
			return
		}
		eng.SwapConfig(newCfg)
		metrics.ConfigReloads.WithLabelValues("ok").Inc()
		slog.Info("curation config hot-reloaded",
			"categories", len(newCfg.Curation.Categories),
			"regions", len(newCfg.Curation.Regions))
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(eng, loader)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop the topic pool
	eng.Shutdown()
	slog.Info("goodbye")
}
