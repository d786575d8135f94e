package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/angeloszaimis/endpoint-race/internal/metrics"
	"github.com/angeloszaimis/endpoint-race/internal/probe"
	"github.com/angeloszaimis/endpoint-race/internal/race"
	"github.com/angeloszaimis/endpoint-race/internal/selector"
)

// Monitor repeatedly races the configured endpoints, publishing each
// finished race into the selector and the metrics collector. The collector
// is optional; racing works the same without it.
type Monitor struct {
	prober    race.Prober
	requests  []probe.Request
	interval  time.Duration
	selector  *selector.Selector
	collector *metrics.Collector
	logger    *slog.Logger
}

func New(
	prober race.Prober,
	requests []probe.Request,
	interval time.Duration,
	sel *selector.Selector,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Monitor {
	return &Monitor{
		prober:    prober,
		requests:  requests,
		interval:  interval,
		selector:  sel,
		collector: collector,
		logger:    logger,
	}
}

// Run races once immediately, then once per interval until the context is
// cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.raceOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Endpoint monitor stopped")
			return

		case <-ticker.C:
			m.raceOnce(ctx)
		}
	}
}

func (m *Monitor) raceOnce(ctx context.Context) {
	r, err := race.Run(ctx, m.prober, m.requests, race.WithFastestHook(func(out probe.Outcome) {
		m.logger.Info("Fastest endpoint latched",
			slog.String("endpoint", out.Endpoint),
			slog.Duration("elapsed", out.Elapsed))
		m.emit(metrics.Event{
			Type:      metrics.EventFastestLatched,
			Timestamp: time.Now(),
			Endpoint:  out.Endpoint,
			Latency:   out.Elapsed,
			Succeeded: true,
		})
	}))
	if err != nil {
		m.logger.Error("Failed to start race", slog.Any("err", err))
		return
	}

	select {
	case <-r.Done():
	case <-ctx.Done():
		// in-flight probes time out on their own; drop this race
		return
	}

	result := r.Result()
	m.selector.Update(result)

	for _, out := range result.Outcomes {
		m.emit(metrics.Event{
			Type:      metrics.EventProbeSettled,
			Timestamp: time.Now(),
			Endpoint:  out.Endpoint,
			Latency:   out.Elapsed,
			Succeeded: out.Succeeded,
			Reason:    out.FailureReason,
		})
	}
	m.emit(metrics.Event{Type: metrics.EventRaceCompleted, Timestamp: time.Now()})

	if result.Fastest == nil {
		m.logger.Warn("Race finished with no successful endpoint",
			slog.Int("total", result.Total))
		return
	}

	m.logger.Debug("Race finished",
		slog.String("fastest", result.Fastest.Endpoint),
		slog.Int("completed", result.Completed),
		slog.Int("total", result.Total))
}

func (m *Monitor) emit(event metrics.Event) {
	if m.collector == nil {
		return
	}

	m.collector.Emit(event)
}
