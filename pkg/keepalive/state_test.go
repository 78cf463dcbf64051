package keepalive

import (
	"testing"
	"time"
)

func TestTouchMonotonic(t *testing.T) {
	start := time.Now()
	s := NewState(start)

	later := start.Add(time.Minute)
	s.Touch(later)
	if got := s.Snapshot().LastMajorActivity; !got.Equal(later) {
		t.Errorf("Expected activity at %v, got %v", later, got)
	}

	// An older timestamp must never move the clock backwards.
	s.Touch(start.Add(-time.Hour))
	if got := s.Snapshot().LastMajorActivity; !got.Equal(later) {
		t.Errorf("Expected activity clock unchanged, got %v", got)
	}
}

func TestMarkAliveMonotonic(t *testing.T) {
	start := time.Now()
	s := NewState(start)

	later := start.Add(time.Minute)
	s.MarkAlive(later)
	s.MarkAlive(start)
	if got := s.Snapshot().LastAlive; !got.Equal(later) {
		t.Errorf("Expected last alive %v, got %v", later, got)
	}
}

func TestSinceActivity(t *testing.T) {
	start := time.Now()
	s := NewState(start)

	now := start.Add(5 * time.Minute)
	if got := s.SinceActivity(now); got != 5*time.Minute {
		t.Errorf("Expected 5m since activity, got %v", got)
	}

	s.Touch(start.Add(4 * time.Minute))
	if got := s.SinceActivity(now); got != time.Minute {
		t.Errorf("Expected 1m since activity after touch, got %v", got)
	}
}

func TestSinceAlive(t *testing.T) {
	start := time.Now()
	s := NewState(start)
	if got := s.SinceAlive(start.Add(time.Hour)); got != time.Hour {
		t.Errorf("Expected 1h since alive, got %v", got)
	}
}

func TestTierFiredCounts(t *testing.T) {
	s := NewState(time.Now())
	for i := 1; i <= 3; i++ {
		if got := s.TierFired(1); got != i {
			t.Errorf("Expected tier 1 count %d, got %d", i, got)
		}
	}
	if got := s.TierFired(2); got != 1 {
		t.Errorf("Expected tier 2 count 1, got %d", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewState(time.Now())
	s.TierFired(1)

	snap := s.Snapshot()
	snap.Fires[1] = 99
	if got := s.Snapshot().Fires[1]; got != 1 {
		t.Errorf("Expected snapshot mutation not to leak, got %d", got)
	}
}
