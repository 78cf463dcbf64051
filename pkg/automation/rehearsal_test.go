package automation

import (
	"context"
	"testing"
)

func TestRehearsalLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewRehearsal()

	alive, err := r.IsSessionAlive(ctx)
	if err != nil {
		t.Fatalf("IsSessionAlive failed: %v", err)
	}
	if alive {
		t.Error("Expected not alive before joining")
	}

	if err := r.Join(ctx, "rehearsal-room"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if alive, _ := r.IsSessionAlive(ctx); !alive {
		t.Error("Expected alive after joining")
	}
	if signal, _ := r.HasPresenceSignal(ctx); !signal {
		t.Error("Expected presence signal after joining")
	}

	if err := r.Leave(ctx); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if alive, _ := r.IsSessionAlive(ctx); alive {
		t.Error("Expected not alive after leaving")
	}
	if signal, _ := r.HasPresenceSignal(ctx); signal {
		t.Error("Expected no presence signal after leaving")
	}
}

func TestRehearsalScriptedLiveness(t *testing.T) {
	ctx := context.Background()
	r := NewRehearsal()
	if err := r.Join(ctx, "rehearsal-room"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	r.SetAlive(false)
	if alive, _ := r.IsSessionAlive(ctx); alive {
		t.Error("Expected scripted not-alive")
	}
	if signal, _ := r.HasPresenceSignal(ctx); !signal {
		t.Error("Expected presence signal to survive scripted liveness loss")
	}

	r.SetAlive(true)
	if alive, _ := r.IsSessionAlive(ctx); !alive {
		t.Error("Expected scripted alive")
	}
}

func TestRehearsalActionsSucceed(t *testing.T) {
	ctx := context.Background()
	r := NewRehearsal()
	for _, action := range []Action{ActionNudgePointer, ActionTogglePanel, ActionOpenChat, ActionDismissDialog} {
		if err := r.PerformAction(ctx, action); err != nil {
			t.Errorf("PerformAction(%q) failed: %v", action, err)
		}
	}
	if err := r.Navigate(ctx, "somewhere"); err != nil {
		t.Errorf("Navigate failed: %v", err)
	}
}
