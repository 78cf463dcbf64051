// Package keepalive keeps an unattended session observably active by
// running several independently scheduled recovery tiers against a shared
// automation surface, escalating from passive pointer nudges to full audio
// recovery probes.
package keepalive

import (
	"sync"
	"time"
)

// State is the shared activity record the tiers coordinate through. All
// mutations go through its methods; the mutex enforces the single-writer
// discipline for lastMajorActivity.
type State struct {
	mu                sync.Mutex
	lastMajorActivity time.Time
	lastAlive         time.Time
	fires             map[int]int
}

// NewState creates a State with the activity clock starting now.
func NewState(now time.Time) *State {
	return &State{
		lastMajorActivity: now,
		lastAlive:         now,
		fires:             make(map[int]int),
	}
}

// Touch records major activity at t. Older timestamps are ignored so the
// clock is monotonically non-decreasing no matter how tier firings
// interleave.
func (s *State) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.After(s.lastMajorActivity) {
		s.lastMajorActivity = t
	}
}

// MarkAlive records a successful liveness observation.
func (s *State) MarkAlive(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.After(s.lastAlive) {
		s.lastAlive = t
	}
}

// SinceActivity reports how long ago the last major activity was.
func (s *State) SinceActivity(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastMajorActivity)
}

// SinceAlive reports how long ago the session was last observed alive.
func (s *State) SinceAlive(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastAlive)
}

// TierFired increments tier's fire counter and returns the new count.
func (s *State) TierFired(tier int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fires[tier]++
	return s.fires[tier]
}

// Snapshot returns a copy of the state for logging and tests.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	fires := make(map[int]int, len(s.fires))
	for k, v := range s.fires {
		fires[k] = v
	}
	return Snapshot{
		LastMajorActivity: s.lastMajorActivity,
		LastAlive:         s.lastAlive,
		Fires:             fires,
	}
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	LastMajorActivity time.Time
	LastAlive         time.Time
	Fires             map[int]int
}
