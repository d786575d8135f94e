package metrics

import (
	"sort"
	"sync"
	"time"
)

// Metrics aggregates probe outcomes per endpoint across successive races.
type Metrics struct {
	mutex        sync.RWMutex
	races        int64
	successes    map[string]int64
	failures     map[string]int64
	fastestWins  map[string]int64
	latencies    map[string][]time.Duration
	lastFailures map[string]string
	startTime    time.Time
}

type Snapshot struct {
	Races     int64                      `json:"races"`
	Uptime    time.Duration              `json:"uptime"`
	Endpoints map[string]EndpointMetrics `json:"endpoints"`
}

type EndpointMetrics struct {
	Successes   int64         `json:"successes"`
	Failures    int64         `json:"failures"`
	FastestWins int64         `json:"fastest_wins"`
	LastFailure string        `json:"last_failure,omitempty"`
	AvgLatency  time.Duration `json:"avg_latency"`
	P50Latency  time.Duration `json:"p50_latency"`
	P95Latency  time.Duration `json:"p95_latency"`
	P99Latency  time.Duration `json:"p99_latency"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		successes:    make(map[string]int64),
		failures:     make(map[string]int64),
		fastestWins:  make(map[string]int64),
		latencies:    make(map[string][]time.Duration),
		lastFailures: make(map[string]string),
		startTime:    time.Now(),
	}
}

func (m *Metrics) RecordProbe(endpoint string, latency time.Duration, succeeded bool, reason string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if succeeded {
		m.successes[endpoint]++
	} else {
		m.failures[endpoint]++
		m.lastFailures[endpoint] = reason
	}

	m.latencies[endpoint] = append(m.latencies[endpoint], latency)
	if len(m.latencies[endpoint]) > 1000 {
		m.latencies[endpoint] = m.latencies[endpoint][1:]
	}
}

func (m *Metrics) RecordFastest(endpoint string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.fastestWins[endpoint]++
}

func (m *Metrics) RecordRace() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.races++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Races:     m.races,
		Uptime:    time.Since(m.startTime),
		Endpoints: make(map[string]EndpointMetrics),
	}

	for endpoint := range m.latencies {
		em := EndpointMetrics{
			Successes:   m.successes[endpoint],
			Failures:    m.failures[endpoint],
			FastestWins: m.fastestWins[endpoint],
			LastFailure: m.lastFailures[endpoint],
		}

		durations := m.latencies[endpoint]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			em.AvgLatency = average(sorted)
			em.P50Latency = percentile(sorted, 0.50)
			em.P95Latency = percentile(sorted, 0.95)
			em.P99Latency = percentile(sorted, 0.99)
		}

		snap.Endpoints[endpoint] = em
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
