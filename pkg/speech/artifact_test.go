package speech

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArtifactRemoveIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	a := NewArtifact(path)
	if err := a.Remove(); err != nil {
		t.Errorf("First Remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected artifact file to be gone")
	}
	if err := a.Remove(); err != nil {
		t.Errorf("Second Remove should be a no-op, got: %v", err)
	}
}

func TestArtifactRemoveAlreadyGone(t *testing.T) {
	a := NewArtifact(filepath.Join(t.TempDir(), "never-existed.wav"))
	if err := a.Remove(); err != nil {
		t.Errorf("Remove of missing file should succeed, got: %v", err)
	}
}

func TestArtifactRemoveEmptyPath(t *testing.T) {
	a := &Artifact{}
	if err := a.Remove(); err != nil {
		t.Errorf("Remove with empty path should succeed, got: %v", err)
	}
}

func TestArtifactCopyToPreservesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	a := NewArtifact(src)
	if err := a.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile(dst) failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Expected copied payload, got %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("Expected source artifact to survive the copy")
	}
}

func TestArtifactCopyToMissingSource(t *testing.T) {
	a := NewArtifact(filepath.Join(t.TempDir(), "gone.wav"))
	if err := a.CopyTo(filepath.Join(t.TempDir(), "dst.wav")); err == nil {
		t.Error("Expected error copying a missing artifact")
	}
}

func TestArtifactSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, make([]byte, 42), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if got := NewArtifact(path).Size(); got != 42 {
		t.Errorf("Expected size 42, got %d", got)
	}
	if got := NewArtifact(path + ".gone").Size(); got != 0 {
		t.Errorf("Expected size 0 for missing file, got %d", got)
	}
}
