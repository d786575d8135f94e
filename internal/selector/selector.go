package selector

import (
	"sync"

	"github.com/angeloszaimis/endpoint-race/internal/probe"
	"github.com/angeloszaimis/endpoint-race/internal/race"
)

// Selector holds the most recent race result so callers can pick the
// fastest healthy endpoint while the next race is still in flight.
type Selector struct {
	mutex  sync.RWMutex
	latest race.Result
	ready  bool
}

func New() *Selector {
	return &Selector{}
}

// Update replaces the held result with the outcome of a finished race.
func (s *Selector) Update(result race.Result) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.latest = result
	s.ready = true
}

// Fastest returns the winning outcome of the latest race. The second return
// is false before any race has finished, or when the latest race had no
// successful probe.
func (s *Selector) Fastest() (probe.Outcome, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.ready || s.latest.Fastest == nil {
		return probe.Outcome{}, false
	}

	return *s.latest.Fastest, true
}

// Snapshot returns the latest full race result. The second return is false
// before any race has finished.
func (s *Selector) Snapshot() (race.Result, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.latest, s.ready
}
