package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventProbeSettled   EventType = "probe_settled"
	EventFastestLatched EventType = "fastest_latched"
	EventRaceCompleted  EventType = "race_completed"
)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Endpoint  string
	Latency   time.Duration
	Succeeded bool
	Reason    string
}

// Collector aggregates race events through a buffered channel drained by a
// single goroutine, so emitters never block on the metrics lock.
type Collector struct {
	eventCh chan Event
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- Event {
	return c.eventCh
}

// Emit offers an event to the collector without blocking; events are dropped
// when the buffer is full.
func (c *Collector) Emit(event Event) {
	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event Event) {
	switch event.Type {
	case EventProbeSettled:
		c.metrics.RecordProbe(event.Endpoint, event.Latency, event.Succeeded, event.Reason)

	case EventFastestLatched:
		c.metrics.RecordFastest(event.Endpoint)

	case EventRaceCompleted:
		c.metrics.RecordRace()
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
