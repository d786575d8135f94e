package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/endpoint-race/config"
	"github.com/angeloszaimis/endpoint-race/internal/handler"
	"github.com/angeloszaimis/endpoint-race/internal/httpserver"
	"github.com/angeloszaimis/endpoint-race/internal/metrics"
	"github.com/angeloszaimis/endpoint-race/internal/monitor"
	"github.com/angeloszaimis/endpoint-race/internal/probe"
	"github.com/angeloszaimis/endpoint-race/internal/selector"
	"github.com/angeloszaimis/endpoint-race/internal/transport"
	"github.com/angeloszaimis/endpoint-race/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	requests, interval, err := buildRequests(cfg)
	if err != nil {
		log.Error("Failed to build probe requests", slog.Any("err", err))
		os.Exit(1)
	}

	runner := probe.NewRunner(transport.NewHTTPSender())
	sel := selector.New()

	collector := metrics.NewCollector(256, log)
	collector.Start(ctx)

	mon := monitor.New(runner, requests, interval, sel, collector, log)
	go mon.Run(ctx)

	log.Info("Racing endpoints",
		slog.Int("endpoints", len(requests)),
		slog.Duration("interval", interval))

	statusHandler := handler.NewStatusHandler(log, sel)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(statusHandler, collector))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting status server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func buildRequests(cfg *config.Config) ([]probe.Request, time.Duration, error) {
	interval, err := time.ParseDuration(cfg.Race.Interval)
	if err != nil {
		return nil, 0, err
	}

	timeout, err := time.ParseDuration(cfg.Race.Timeout)
	if err != nil {
		return nil, 0, err
	}

	requests := make([]probe.Request, 0, len(cfg.Endpoints))
	for _, endpoint := range cfg.Endpoints {
		requests = append(requests, probe.Request{
			Endpoint:     endpoint,
			Path:         cfg.Race.Path,
			Timeout:      timeout,
			Headers:      cfg.Race.Headers,
			ExpectedBody: []byte(cfg.Race.ExpectedBody),
		})
	}

	if len(requests) == 0 {
		return nil, 0, os.ErrInvalid
	}

	return requests, interval, nil
}
