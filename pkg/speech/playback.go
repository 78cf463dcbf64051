package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// PlayResult reports how a playback attempt went. Playback is a side
// effect, not the unit of success: callers log the error and move on.
type PlayResult struct {
	// Played is true if any mechanism produced (or, in silent mode, would
	// have produced) device output.
	Played bool

	// Mechanism names what did the playing: "silent", "device" or the
	// external player binary.
	Mechanism string

	// Err is the last failure when nothing could play.
	Err error
}

// Player sends audio artifacts to the default output device. For a silent
// request no device I/O happens at all, but the adapter still logs what it
// would have played so behavior stays observable without audio hardware.
type Player struct {
	platform *PlatformInfo
	runner   *Runner
	device   *otoDevice
}

// NewPlayer builds a Player for the host platform.
func NewPlayer(runner *Runner) *Player {
	return &Player{
		platform: HostPlatform(),
		runner:   runner,
		device:   newOtoDevice(),
	}
}

// Play plays the artifact at path; silent carries the request's playback
// suppression. The in-process device path is tried for 16-bit PCM WAV
// artifacts first, then at most two platform players as best effort. All
// failures are swallowed into the result, never propagated as hard errors.
func (p *Player) Play(ctx context.Context, path string, silent bool) PlayResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlayResult{Err: fmt.Errorf("artifact unreadable: %w", err)}
	}

	if silent {
		log.Info("silent mode: would have played artifact",
			"path", path, "size", humanize.Bytes(uint64(len(data))))
		return PlayResult{Played: true, Mechanism: "silent"}
	}

	var lastErr error
	if audio, decErr := decodeWAV(data); decErr == nil {
		if err := p.device.playWAV(audio); err == nil {
			log.Debug("played artifact on device", "path", path, "seconds", audio.duration())
			return PlayResult{Played: true, Mechanism: "device"}
		} else {
			lastErr = err
			log.Debug("device playback failed, trying external players", "error", err)
		}
	} else {
		log.Debug("artifact not device-playable", "path", path, "reason", decErr)
	}

	// Secondary mechanisms: at most two external players.
	players := p.platform.Players
	if len(players) > 2 {
		players = players[:2]
	}
	for _, player := range players {
		if err := p.runExternal(ctx, player, path); err != nil {
			lastErr = err
			log.Debug("external player failed", "player", player, "error", err)
			continue
		}
		return PlayResult{Played: true, Mechanism: filepath.Base(player)}
	}

	if lastErr == nil {
		lastErr = errors.New("no playback mechanism available")
	}
	return PlayResult{Err: lastErr}
}

func (p *Player) runExternal(ctx context.Context, player, path string) error {
	args := []string{path}
	if p.platform.OS == PlatformWindows && strings.Contains(strings.ToLower(player), "powershell") {
		script := fmt.Sprintf(
			"(New-Object Media.SoundPlayer %q).PlaySync()", path)
		args = []string{"-NoProfile", "-Command", script}
	}
	_, err := p.runner.Run(ctx, player, args...)
	return err
}
