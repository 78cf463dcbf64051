package speech

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Chain tries an ordered list of synthesis providers until one succeeds.
// The order is fixed at construction; there is no ambient fallback state.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain over providers, tried strictly in the given order.
func NewChain(providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	return &Chain{providers: providers}, nil
}

// Providers returns the configured provider names in priority order.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Synthesize runs the request through the chain. Each provider failure is
// logged with its cause and the next provider is tried; only when every
// provider has failed does the chain report ErrChainExhausted. On success
// the artifact is optionally copied to the request's destination; a failed
// copy is logged but does not invalidate the result.
func (c *Chain) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !p.Available() {
			log.Debug("provider unavailable, trying next", "provider", p.Name())
			continue
		}

		path, err := c.attempt(ctx, p, req.Text)
		if err != nil {
			log.Warn("provider failed, trying next", "provider", p.Name(), "error", err)
			continue
		}

		if path == "" {
			log.Info("degraded synthesis path used", "provider", p.Name())
			return &Result{Provider: p.Name(), Degraded: true}, nil
		}

		artifact := NewArtifact(path)
		log.Debug("synthesis succeeded",
			"provider", p.Name(),
			"artifact", path,
			"size", humanize.Bytes(uint64(artifact.Size())))

		if req.Destination != "" && req.Destination != path {
			if err := artifact.CopyTo(req.Destination); err != nil {
				log.Warn("artifact copy failed, working artifact remains valid",
					"destination", req.Destination, "error", err)
			}
		}
		return &Result{Provider: p.Name(), Artifact: artifact}, nil
	}

	return nil, ErrChainExhausted
}

// attempt wraps one provider call, converting panics and phantom artifacts
// into ordinary errors so a misbehaving backend cannot take the chain down.
func (c *Chain) attempt(ctx context.Context, p Provider, text string) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(err, errorFromPanic(r))
		}
	}()

	path, err = p.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return "", ErrArtifactMissing
		}
		return "", statErr
	}
	return path, nil
}

func errorFromPanic(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("provider panic: %v", r)
}
