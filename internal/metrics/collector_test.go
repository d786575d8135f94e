package metrics_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/endpoint-race/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log := slog.New(slog.NewTextHandler(os.Stdout, nil))
		collector = metrics.NewCollector(64, log)
		ctx, cancel = context.WithCancel(context.Background())
		collector.Start(ctx)
	})

	AfterEach(func() {
		cancel()
	})

	It("aggregates emitted probe events", func() {
		collector.Emit(metrics.Event{
			Type:      metrics.EventProbeSettled,
			Timestamp: time.Now(),
			Endpoint:  "a.example.com",
			Latency:   20 * time.Millisecond,
			Succeeded: true,
		})

		Eventually(func() int64 {
			return collector.Snapshot().Endpoints["a.example.com"].Successes
		}).Should(Equal(int64(1)))
	})

	It("aggregates fastest and race events", func() {
		collector.Emit(metrics.Event{Type: metrics.EventFastestLatched, Endpoint: "a.example.com"})
		collector.Emit(metrics.Event{Type: metrics.EventRaceCompleted})

		Eventually(func() int64 {
			return collector.Snapshot().Races
		}).Should(Equal(int64(1)))
	})

	It("drops events instead of blocking when the buffer is full", func() {
		small := metrics.NewCollector(1, slog.New(slog.NewTextHandler(os.Stdout, nil)))

		done := make(chan struct{})
		go func() {
			for i := 0; i < 100; i++ {
				small.Emit(metrics.Event{Type: metrics.EventRaceCompleted})
			}
			close(done)
		}()

		Eventually(done).Should(BeClosed())
	})
})
