package speech

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPlayerSilentMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, buildWAV(22050, 1, make([]byte, 100)), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	p := NewPlayer(NewRunner(time.Second))
	result := p.Play(context.Background(), path, true)
	if result.Err != nil {
		t.Fatalf("Silent play failed: %v", result.Err)
	}
	if !result.Played {
		t.Error("Expected Played for a silent request")
	}
	if result.Mechanism != "silent" {
		t.Errorf("Expected mechanism silent, got %q", result.Mechanism)
	}
}

func TestPlayerUnreadableArtifact(t *testing.T) {
	p := NewPlayer(NewRunner(time.Second))
	result := p.Play(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), true)
	if result.Err == nil {
		t.Error("Expected error for missing artifact")
	}
	if result.Played {
		t.Error("Expected Played false for missing artifact")
	}
}
