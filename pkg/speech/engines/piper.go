package engines

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/standinbot/standin/pkg/speech"
)

// PiperConfig configures the local piper voice engine.
type PiperConfig struct {
	// Binary is the piper executable name or path. Defaults to "piper".
	Binary string

	// ModelPath points at the ONNX voice model. Empty lets piper use its
	// default model resolution.
	ModelPath string
}

// Piper runs the piper neural TTS binary locally: text on stdin, WAV
// artifact via --output_file. No network required.
type Piper struct {
	cfg    PiperConfig
	binary string
	namer  *speech.Namer
	runner *speech.Runner
}

// NewPiper creates the piper provider. Binary discovery happens once here,
// not per call.
func NewPiper(cfg PiperConfig, namer *speech.Namer, runner *speech.Runner) *Piper {
	if cfg.Binary == "" {
		cfg.Binary = "piper"
	}
	p := &Piper{cfg: cfg, namer: namer, runner: runner}
	p.binary = findPiperBinary(cfg.Binary)
	return p
}

func findPiperBinary(name string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	home, _ := os.UserHomeDir()
	for _, candidate := range []string{
		"/usr/local/bin/piper",
		"/usr/bin/piper",
		"/opt/piper/piper",
		filepath.Join(home, ".local/bin/piper"),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Name implements speech.Provider.
func (p *Piper) Name() string { return "piper" }

// Available implements speech.Provider.
func (p *Piper) Available() bool {
	if p.binary == "" {
		return false
	}
	if p.cfg.ModelPath != "" {
		if _, err := os.Stat(p.cfg.ModelPath); err != nil {
			return false
		}
	}
	return true
}

// Synthesize feeds text to piper and returns the WAV artifact it wrote.
func (p *Piper) Synthesize(ctx context.Context, text string) (string, error) {
	if p.binary == "" {
		return "", fmt.Errorf("piper binary not found")
	}

	path := p.namer.NewPath("wav")
	args := []string{"--output_file", path}
	if p.cfg.ModelPath != "" {
		args = append(args, "--model", p.cfg.ModelPath)
	}

	if _, err := p.runner.RunWithStdin(ctx, text, p.binary, args...); err != nil {
		// A failed run may leave a partial artifact behind.
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
