// Package speech implements the cascading text-to-speech pipeline: artifact
// naming, the synthesis provider chain, playback, and the speak-and-act
// orchestrator used by the keep-alive tiers.
package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultArtifactPrefix is the filename prefix for generated audio artifacts.
const DefaultArtifactPrefix = "standin"

// Namer produces collision-free artifact filenames inside a single
// directory. Names combine a nanosecond timestamp with a random suffix so
// concurrent callers, including other processes sharing the temp directory,
// cannot collide.
type Namer struct {
	dir    string
	prefix string
}

// NewNamer creates a Namer rooted at dir, creating the directory if needed.
// An empty dir falls back to a prefix-named folder under the system temp
// directory.
func NewNamer(dir, prefix string) (*Namer, error) {
	if prefix == "" {
		prefix = DefaultArtifactPrefix
	}
	if dir == "" {
		dir = filepath.Join(os.TempDir(), prefix)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Namer{dir: dir, prefix: prefix}, nil
}

// Dir returns the directory artifacts are written to.
func (n *Namer) Dir() string {
	return n.dir
}

// NewName returns a unique artifact filename with the given extension.
// The random component carries 4 bytes of UUID entropy on top of the
// nanosecond timestamp.
func (n *Namer) NewName(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s%s", n.prefix, time.Now().UnixNano(), suffix, ext)
}

// NewPath returns a unique artifact path inside the Namer's directory.
func (n *Namer) NewPath(ext string) string {
	return filepath.Join(n.dir, n.NewName(ext))
}

// Sweep removes stale artifacts matching the naming convention left behind
// by prior runs. Files younger than maxAge are kept; anything that does not
// carry the prefix is never touched. Errors are logged, not returned, since
// a failed sweep must not block startup.
func (n *Namer) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(n.dir)
	if err != nil {
		log.Warn("artifact sweep skipped", "dir", n.dir, "error", err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), n.prefix+"_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if maxAge > 0 && info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(n.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn("failed to remove stale artifact", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info("swept stale artifacts", "dir", n.dir, "removed", removed)
	}
	return removed
}
