package speech

import "context"

// Provider is a single speech-synthesis backend. Implementations convert
// text to an audio file and hand the path back; they never panic across the
// boundary, and any internal failure comes back as an error for the chain
// to log and fall past.
type Provider interface {
	// Name returns the human-readable provider name for logs.
	Name() string

	// Available performs a cheap runtime check that the provider can be
	// used right now (binary present, endpoint configured, ...).
	Available() bool

	// Synthesize converts text to an audio artifact and returns its path.
	// A degraded provider that produces observable output without audio
	// returns an empty path with a nil error.
	Synthesize(ctx context.Context, text string) (string, error)
}

// Request describes one synthesis request. Immutable once submitted.
type Request struct {
	// Text to speak. Must be non-empty.
	Text string

	// Silent suppresses device playback downstream; synthesis still runs.
	Silent bool

	// Destination, when set, receives a copy of the artifact after a
	// successful synthesis. The working artifact is copied, never moved.
	Destination string
}

// Result is the outcome of a successful chain attempt. Exactly one provider
// contributes to it.
type Result struct {
	// Provider that produced the artifact.
	Provider string

	// Artifact on disk. Nil for a degraded, non-audio result.
	Artifact *Artifact

	// Degraded marks a non-audio fallback (e.g. a desktop notification).
	Degraded bool
}
