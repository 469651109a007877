package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"iotsec-sim/internal/admin"
	"iotsec-sim/internal/engine"
	"iotsec-sim/internal/observability"
)

// attachMetrics registers a Prometheus collector on the engine when the
// admin surface is enabled. Returns nil when addr is empty.
func attachMetrics(eng *engine.Engine, addr string) (*observability.EngineCollector, error) {
	if addr == "" {
		return nil, nil
	}
	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		return nil, err
	}
	eng.SetMetrics(collector)
	return collector, nil
}

// serveAdmin blocks serving /status and /metrics until SIGINT or SIGTERM.
// A no-op when addr is empty.
func serveAdmin(eng *engine.Engine, collector *observability.EngineCollector, addr string, log *slog.Logger) error {
	if addr == "" {
		return nil
	}

	var metrics http.Handler
	if collector != nil {
		metrics = collector.Handler()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("admin server listening", "addr", addr)
	srv := admin.NewServer(eng, metrics)
	if err := srv.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
