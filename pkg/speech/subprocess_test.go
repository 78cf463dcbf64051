package speech

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell utilities")
	}
}

func TestNewRunnerDefaultTimeout(t *testing.T) {
	if r := NewRunner(0); r.timeout != DefaultCommandTimeout {
		t.Errorf("Expected default timeout %v, got %v", DefaultCommandTimeout, r.timeout)
	}
	if r := NewRunner(3 * time.Second); r.timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %v", r.timeout)
	}
}

func TestRunCapturesStdout(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(5 * time.Second)
	out, err := r.Run(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(string(out)) != "hello" {
		t.Errorf("Expected hello, got %q", out)
	}
}

func TestRunWithStdin(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(5 * time.Second)
	out, err := r.RunWithStdin(context.Background(), "hello world", "cat")
	if err != nil {
		t.Fatalf("RunWithStdin failed: %v", err)
	}
	if string(out) != "hello world" {
		t.Errorf("Expected stdin echoed back, got %q", out)
	}
}

func TestRunStderrInError(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(5 * time.Second)
	_, err := r.Run(context.Background(), "sh", "-c", "echo broken >&2; exit 1")
	if err == nil {
		t.Fatal("Expected error from failing command")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("Expected stderr in error, got %q", err)
	}
}

func TestRunTimeout(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(100 * time.Millisecond)
	start := time.Now()
	_, err := r.Run(context.Background(), "sleep", "5")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Expected timed out error, got %q", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Expected prompt timeout, took %v", elapsed)
	}
}

func TestRunContextDeadlineWins(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := r.Run(ctx, "sleep", "5"); err == nil {
		t.Fatal("Expected error from expired context")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Expected context deadline to cut the run short, took %v", elapsed)
	}
}

func TestRunMissingCommand(t *testing.T) {
	r := NewRunner(time.Second)
	if _, err := r.Run(context.Background(), "definitely-not-a-command-xyz"); err == nil {
		t.Error("Expected error for nonexistent command")
	}
}
