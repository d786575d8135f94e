package race

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/angeloszaimis/endpoint-race/internal/probe"
)

// Prober runs a single endpoint probe to completion. *probe.Runner is the
// production implementation.
type Prober interface {
	Probe(ctx context.Context, req probe.Request) probe.Outcome
}

// Result is a snapshot of one race. Fastest is nil until a probe succeeds,
// and stays nil when none ever does. Outcomes holds the ranked outcomes and
// is populated only once every probe has settled.
type Result struct {
	Fastest   *probe.Outcome  `json:"fastest,omitempty"`
	Outcomes  []probe.Outcome `json:"outcomes"`
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
}

// Option configures a race before its probes launch.
type Option func(*Race)

// WithFastestHook registers a callback invoked exactly once, at the moment
// the first successful outcome is latched. It is never invoked for races
// where no probe succeeds.
func WithFastestHook(fn func(probe.Outcome)) Option {
	return func(r *Race) {
		r.hook = fn
	}
}

// Race is one concurrent run of probes across all configured endpoints.
// The two observation points, FirstSuccess and Done, are backed by the same
// set of probes; endpoints are probed exactly once per race.
type Race struct {
	firstCh chan probe.Outcome
	doneCh  chan struct{}
	hook    func(probe.Outcome)

	mu        sync.Mutex
	fastest   *probe.Outcome
	arrived   []probe.Outcome
	ranked    []probe.Outcome
	completed int
	total     int
}

// Run launches one probe per request and returns immediately. All probes
// start concurrently and every one runs to its own completion or timeout; a
// fastest success never cancels in-flight siblings. An empty request list is
// a caller configuration mistake and is rejected before any probe launches.
func Run(ctx context.Context, prober Prober, requests []probe.Request, opts ...Option) (*Race, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("race: no endpoints configured")
	}

	r := &Race{
		firstCh: make(chan probe.Outcome, 1),
		doneCh:  make(chan struct{}),
		total:   len(requests),
	}

	for _, opt := range opts {
		opt(r)
	}

	resCh := make(chan probe.Outcome, len(requests))
	for _, req := range requests {
		go func(req probe.Request) {
			resCh <- prober.Probe(ctx, req)
		}(req)
	}

	go r.collect(resCh)

	return r, nil
}

// FirstSuccess yields the fastest successful outcome as soon as one arrives,
// then closes. It closes without a value when every probe fails; receive
// with the comma-ok form to distinguish the two.
func (r *Race) FirstSuccess() <-chan probe.Outcome {
	return r.firstCh
}

// Done is closed once every probe has settled.
func (r *Race) Done() <-chan struct{} {
	return r.doneCh
}

// Result returns the race state at this instant. It is safe to call from
// any goroutine, before or after completion.
func (r *Race) Result() Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := Result{
		Completed: r.completed,
		Total:     r.total,
	}
	if r.fastest != nil {
		fastest := *r.fastest
		res.Fastest = &fastest
	}
	if r.ranked != nil {
		res.Outcomes = make([]probe.Outcome, len(r.ranked))
		copy(res.Outcomes, r.ranked)
	}

	return res
}

// collect is the single aggregator goroutine: it drains probe completions in
// arrival order, latches the fastest success exactly once, and ranks the
// full outcome set after the last probe settles.
func (r *Race) collect(resCh <-chan probe.Outcome) {
	latched := false

	for i := 0; i < r.total; i++ {
		out := <-resCh

		r.mu.Lock()
		r.arrived = append(r.arrived, out)
		r.completed++
		latch := out.Succeeded && r.fastest == nil
		if latch {
			fastest := out
			r.fastest = &fastest
		}
		r.mu.Unlock()

		if latch {
			latched = true
			r.firstCh <- out
			close(r.firstCh)
			if r.hook != nil {
				r.hook(out)
			}
		}
	}

	r.mu.Lock()
	ranked := make([]probe.Outcome, len(r.arrived))
	copy(ranked, r.arrived)
	rank(ranked)
	r.ranked = ranked
	r.mu.Unlock()

	if !latched {
		close(r.firstCh)
	}
	close(r.doneCh)
}

// rank orders outcomes with every success before every failure and ascending
// elapsed time within each group. The sort is stable over arrival order, so
// ties keep a deterministic relative order for the same settled sequence.
func rank(outcomes []probe.Outcome) {
	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].Succeeded != outcomes[j].Succeeded {
			return outcomes[i].Succeeded
		}
		return outcomes[i].Elapsed < outcomes[j].Elapsed
	})
}
