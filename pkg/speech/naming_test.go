package speech

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewNamerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	n, err := NewNamer(dir, "test")
	if err != nil {
		t.Fatalf("NewNamer failed: %v", err)
	}
	if n.Dir() != dir {
		t.Errorf("Expected dir %q, got %q", dir, n.Dir())
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("Expected artifact directory to exist, got %v", err)
	}
}

func TestNewNamerDefaults(t *testing.T) {
	n, err := NewNamer("", "")
	if err != nil {
		t.Fatalf("NewNamer failed: %v", err)
	}
	if !strings.Contains(n.Dir(), DefaultArtifactPrefix) {
		t.Errorf("Expected default dir to contain prefix, got %q", n.Dir())
	}
}

func TestNewNameUnique(t *testing.T) {
	n, err := NewNamer(t.TempDir(), "test")
	if err != nil {
		t.Fatalf("NewNamer failed: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := n.NewName("wav")
		if seen[name] {
			t.Fatalf("Duplicate name generated: %q", name)
		}
		seen[name] = true

		if !strings.HasPrefix(name, "test_") {
			t.Errorf("Expected prefix test_, got %q", name)
		}
		if !strings.HasSuffix(name, ".wav") {
			t.Errorf("Expected .wav suffix, got %q", name)
		}
	}
}

func TestNewNameNoCollisionsUnderConcurrency(t *testing.T) {
	n, err := NewNamer(t.TempDir(), "test")
	if err != nil {
		t.Fatalf("NewNamer failed: %v", err)
	}

	const workers = 10
	const perWorker = 1200
	results := make(chan string, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				results <- n.NewName("wav")
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, workers*perWorker)
	for name := range results {
		if seen[name] {
			t.Fatalf("Collision: %q generated twice", name)
		}
		seen[name] = true
	}
	if len(seen) != workers*perWorker {
		t.Errorf("Expected %d distinct names, got %d", workers*perWorker, len(seen))
	}
}

func TestNewNameExtensionNormalized(t *testing.T) {
	n, err := NewNamer(t.TempDir(), "test")
	if err != nil {
		t.Fatalf("NewNamer failed: %v", err)
	}

	tests := []struct {
		ext    string
		suffix string
	}{
		{"wav", ".wav"},
		{".wav", ".wav"},
		{"", ""},
	}
	for _, tt := range tests {
		name := n.NewName(tt.ext)
		if tt.suffix == "" {
			if strings.Contains(name, ".") {
				t.Errorf("Expected no extension for %q, got %q", tt.ext, name)
			}
			continue
		}
		if !strings.HasSuffix(name, tt.suffix) {
			t.Errorf("Expected suffix %q for ext %q, got %q", tt.suffix, tt.ext, name)
		}
	}
}

func TestNewPathInsideDir(t *testing.T) {
	dir := t.TempDir()
	n, err := NewNamer(dir, "test")
	if err != nil {
		t.Fatalf("NewNamer failed: %v", err)
	}
	path := n.NewPath("wav")
	if filepath.Dir(path) != dir {
		t.Errorf("Expected path inside %q, got %q", dir, path)
	}
}

func TestSweepRemovesOnlyStalePrefixedFiles(t *testing.T) {
	dir := t.TempDir()
	n, err := NewNamer(dir, "test")
	if err != nil {
		t.Fatalf("NewNamer failed: %v", err)
	}

	stale := filepath.Join(dir, "test_1_deadbeef.wav")
	fresh := filepath.Join(dir, "test_2_cafebabe.wav")
	foreign := filepath.Join(dir, "unrelated.wav")
	for _, p := range []string{stale, fresh, foreign} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	if err := os.Chtimes(foreign, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	removed := n.Sweep(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Expected stale artifact to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("Expected fresh artifact to survive")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("Expected foreign file to survive")
	}
}

func TestSweepMissingDirectory(t *testing.T) {
	n := &Namer{dir: filepath.Join(t.TempDir(), "gone"), prefix: "test"}
	if removed := n.Sweep(time.Hour); removed != 0 {
		t.Errorf("Expected 0 removed for missing dir, got %d", removed)
	}
}
