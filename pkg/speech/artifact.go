package speech

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// Artifact is a synthesized audio file on disk. Ownership passes from the
// provider chain to playback and finally back to the speaker, which removes
// it. Remove is safe to call from whichever component ends up last.
type Artifact struct {
	Path string

	once      sync.Once
	removeErr error
}

// NewArtifact wraps an on-disk path.
func NewArtifact(path string) *Artifact {
	return &Artifact{Path: path}
}

// Remove deletes the underlying file. A second call is a no-op, and a file
// that is already gone does not count as an error.
func (a *Artifact) Remove() error {
	a.once.Do(func() {
		if a.Path == "" {
			return
		}
		if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			a.removeErr = err
		}
	})
	return a.removeErr
}

// CopyTo copies the artifact to dst, never moving it: the working artifact
// stays valid for playback regardless of what happens to the copy.
func (a *Artifact) CopyTo(dst string) error {
	src, err := os.Open(a.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Sync()
}

// Size reports the artifact's size in bytes, or 0 when it cannot be stated.
func (a *Artifact) Size() int64 {
	info, err := os.Stat(a.Path)
	if err != nil {
		return 0
	}
	return info.Size()
}
