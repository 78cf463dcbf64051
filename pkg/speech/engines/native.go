package engines

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/standinbot/standin/pkg/speech"
)

// Native is the OS-supplied synthesizer fallback: `say` on macOS,
// espeak-ng/espeak on Linux, a System.Speech PowerShell script on Windows.
// The platform, and with it the command shape, is fixed once per process.
type Native struct {
	platform *speech.PlatformInfo
	namer    *speech.Namer
	runner   *speech.Runner
}

// NewNative creates the native provider for the host platform.
func NewNative(namer *speech.Namer, runner *speech.Runner) *Native {
	return &Native{
		platform: speech.HostPlatform(),
		namer:    namer,
		runner:   runner,
	}
}

// Name implements speech.Provider.
func (n *Native) Name() string { return "native" }

// Available implements speech.Provider.
func (n *Native) Available() bool { return n.platform.NativeSynth != "" }

// Synthesize renders text to a WAV artifact with the platform synthesizer.
func (n *Native) Synthesize(ctx context.Context, text string) (string, error) {
	if n.platform.NativeSynth == "" {
		return "", fmt.Errorf("no native synthesizer on %s", n.platform.OS)
	}

	path := n.namer.NewPath("wav")
	switch n.platform.OS {
	case speech.PlatformDarwin:
		// say writes AIFF by default; ask for 16-bit PCM WAV explicitly.
		_, err := n.runner.Run(ctx, n.platform.NativeSynth,
			"-o", path, "--data-format=LEI16@22050", "--file-format=WAVE", text)
		if err != nil {
			_ = os.Remove(path)
			return "", err
		}
		return path, nil

	case speech.PlatformLinux:
		// espeak-ng --stdout emits WAV on stdout.
		out, err := n.runner.Run(ctx, n.platform.NativeSynth, "--stdout", text)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return "", fmt.Errorf("writing wav: %w", err)
		}
		return path, nil

	case speech.PlatformWindows:
		script := fmt.Sprintf(
			"Add-Type -AssemblyName System.Speech; "+
				"$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; "+
				"$s.SetOutputToWaveFile('%s'); $s.Speak('%s'); $s.Dispose()",
			escapePowerShell(path), escapePowerShell(text))
		if _, err := n.runner.Run(ctx, n.platform.NativeSynth, "-NoProfile", "-Command", script); err != nil {
			_ = os.Remove(path)
			return "", err
		}
		return path, nil
	}

	return "", fmt.Errorf("unsupported platform %s", n.platform.OS)
}

// escapePowerShell escapes a value for a single-quoted PowerShell string.
func escapePowerShell(text string) string {
	return strings.ReplaceAll(text, "'", "''")
}
