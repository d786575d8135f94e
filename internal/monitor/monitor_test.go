package monitor_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/endpoint-race/internal/metrics"
	"github.com/angeloszaimis/endpoint-race/internal/monitor"
	"github.com/angeloszaimis/endpoint-race/internal/probe"
	"github.com/angeloszaimis/endpoint-race/internal/selector"
)

func TestMonitor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Monitor Suite")
}

// countingProber succeeds instantly and counts probes per endpoint.
type countingProber struct {
	mu     sync.Mutex
	counts map[string]int
}

func (p *countingProber) Probe(ctx context.Context, req probe.Request) probe.Outcome {
	p.mu.Lock()
	p.counts[req.Endpoint]++
	p.mu.Unlock()

	return probe.Outcome{
		Endpoint:  req.Endpoint,
		Elapsed:   time.Millisecond,
		Succeeded: true,
		Body:      []byte(`{}`),
	}
}

func (p *countingProber) count(endpoint string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[endpoint]
}

var _ = Describe("Monitor", func() {
	var (
		prober    *countingProber
		sel       *selector.Selector
		collector *metrics.Collector
		log       *slog.Logger
		requests  []probe.Request
	)

	BeforeEach(func() {
		prober = &countingProber{counts: map[string]int{}}
		sel = selector.New()
		log = slog.New(slog.NewTextHandler(os.Stdout, nil))
		collector = metrics.NewCollector(64, log)
		requests = []probe.Request{
			{Endpoint: "a.example.com", Path: "/", Timeout: time.Second},
			{Endpoint: "b.example.com", Path: "/", Timeout: time.Second},
		}
	})

	Describe("Run", func() {
		It("races immediately and updates the selector", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			m := monitor.New(prober, requests, time.Hour, sel, nil, log)
			go m.Run(ctx)

			Eventually(func() bool {
				_, ok := sel.Fastest()
				return ok
			}).Should(BeTrue())
		})

		It("races again on each tick", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			m := monitor.New(prober, requests, 50*time.Millisecond, sel, nil, log)
			go m.Run(ctx)

			Eventually(func() int {
				return prober.count("a.example.com")
			}, 2*time.Second).Should(BeNumerically(">=", 3))
		})

		It("feeds outcomes into the metrics collector", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			collector.Start(ctx)

			m := monitor.New(prober, requests, time.Hour, sel, collector, log)
			go m.Run(ctx)

			Eventually(func() int64 {
				return collector.Snapshot().Races
			}).Should(BeNumerically(">=", 1))
			Eventually(func() int64 {
				return collector.Snapshot().Endpoints["a.example.com"].Successes
			}).Should(BeNumerically(">=", 1))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())

			m := monitor.New(prober, requests, 20*time.Millisecond, sel, nil, log)

			done := make(chan struct{})
			go func() {
				m.Run(ctx)
				close(done)
			}()

			time.Sleep(50 * time.Millisecond)
			cancel()

			Eventually(done).Should(BeClosed())
		})
	})
})
