// Package engines provides the concrete synthesis providers the chain is
// built from: a remote HTTP voice API, a local piper engine, the OS-native
// synthesizer and a degraded notification fallback.
package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/standinbot/standin/pkg/speech"
)

// RemoteConfig configures the remote synthesis provider.
type RemoteConfig struct {
	// Endpoint is the synthesis URL. Empty disables the provider.
	Endpoint string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Voice is the voice profile requested from the service.
	Voice string

	// Format is the output container ("wav" by default).
	Format string

	// Timeout bounds each request.
	Timeout time.Duration

	// RequestsPerMinute rate-limits calls so aggressive keep-alive
	// schedules cannot hammer the API. Defaults to 30.
	RequestsPerMinute int
}

// Remote synthesizes speech through a hosted TTS HTTP API. Treated as best
// effort: rate limited, bounded by a timeout, and any failure hands control
// to the next provider in the chain.
type Remote struct {
	cfg     RemoteConfig
	client  *http.Client
	limiter *rate.Limiter
	namer   *speech.Namer
}

type remoteRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice,omitempty"`
	Format string `json:"format"`
}

// NewRemote creates the remote provider.
func NewRemote(cfg RemoteConfig, namer *speech.Namer) *Remote {
	if cfg.Format == "" {
		cfg.Format = "wav"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	return &Remote{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		namer:   namer,
	}
}

// Name implements speech.Provider.
func (r *Remote) Name() string { return "remote" }

// Available implements speech.Provider.
func (r *Remote) Available() bool { return r.cfg.Endpoint != "" }

// Synthesize posts the text and writes the binary audio response to a
// freshly named artifact.
func (r *Remote) Synthesize(ctx context.Context, text string) (string, error) {
	limitCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()
	if err := r.limiter.Wait(limitCtx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(remoteRequest{Text: text, Voice: r.cfg.Voice, Format: r.cfg.Format})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("synthesis API returned %d: %s", resp.StatusCode, snippet)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading audio payload: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("synthesis API returned empty payload")
	}

	path := r.namer.NewPath(r.cfg.Format)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	log.Debug("remote synthesis complete", "bytes", len(audio), "artifact", path)
	return path, nil
}
