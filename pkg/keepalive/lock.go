package keepalive

import (
	"context"
	"time"
)

// ActionLock serializes every UI and audio action against the shared
// automation surface. Tiers that cannot acquire it within their timeout
// skip the firing instead of blocking their schedule, which is why this is
// a channel rather than a sync.Mutex: acquisition must be boundable.
type ActionLock struct {
	ch chan struct{}
}

// NewActionLock creates an unlocked ActionLock.
func NewActionLock() *ActionLock {
	l := &ActionLock{ch: make(chan struct{}, 1)}
	l.ch <- struct{}{}
	return l
}

// TryAcquire attempts to take the lock, waiting at most timeout. It returns
// false when the lock could not be taken in time or the context ended.
func (l *ActionLock) TryAcquire(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-l.ch:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Release returns the lock. Calling Release without holding the lock is a
// programming error and panics.
func (l *ActionLock) Release() {
	select {
	case l.ch <- struct{}{}:
	default:
		panic("keepalive: release of unheld action lock")
	}
}
