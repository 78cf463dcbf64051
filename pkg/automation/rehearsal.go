package automation

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Rehearsal is a Surface that drives nothing: every call is logged and
// succeeds. It backs --rehearse runs, where the whole pipeline exercises
// end to end without a browser, and doubles as the base for test fakes.
type Rehearsal struct {
	mu     sync.Mutex
	alive  bool
	joined bool
}

// NewRehearsal creates a rehearsal surface that reports alive once joined.
func NewRehearsal() *Rehearsal {
	return &Rehearsal{alive: true}
}

// SetAlive overrides the liveness answer, for scripted dry runs.
func (r *Rehearsal) SetAlive(alive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alive = alive
}

// IsSessionAlive implements Surface.
func (r *Rehearsal) IsSessionAlive(context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joined && r.alive, nil
}

// HasPresenceSignal implements Surface.
func (r *Rehearsal) HasPresenceSignal(context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joined, nil
}

// PerformAction implements Surface.
func (r *Rehearsal) PerformAction(_ context.Context, action Action) error {
	log.Info("rehearsal: would perform action", "action", action)
	return nil
}

// Navigate implements Surface.
func (r *Rehearsal) Navigate(_ context.Context, target string) error {
	log.Info("rehearsal: would navigate", "target", target)
	return nil
}

// Join implements Surface.
func (r *Rehearsal) Join(_ context.Context, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joined = true
	log.Info("rehearsal: would join session", "target", target)
	return nil
}

// Leave implements Surface.
func (r *Rehearsal) Leave(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joined = false
	log.Info("rehearsal: would leave session")
	return nil
}
