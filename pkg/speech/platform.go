package speech

import (
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
)

// Platform identifies the host operating system family.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// PlatformInfo captures the host platform facts the pipeline needs:
// which native synthesizer to shell out to and which external audio players
// to try, in order. Detected exactly once per process.
type PlatformInfo struct {
	OS Platform

	// NativeSynth is the OS speech synthesizer binary, empty if none found.
	NativeSynth string

	// Players lists external audio player commands in preference order.
	Players []string

	// Notifier is the desktop notification binary for the degraded path.
	Notifier string

	// IsCI reports whether we appear to run under CI (no audio hardware).
	IsCI bool
}

var (
	platformOnce sync.Once
	platformInfo *PlatformInfo
)

// HostPlatform detects the current platform on first call and returns the
// same result for the life of the process.
func HostPlatform() *PlatformInfo {
	platformOnce.Do(func() {
		platformInfo = detectPlatform()
		log.Debug("platform detected",
			"os", platformInfo.OS,
			"native_synth", platformInfo.NativeSynth,
			"players", platformInfo.Players,
			"ci", platformInfo.IsCI)
	})
	return platformInfo
}

func detectPlatform() *PlatformInfo {
	info := &PlatformInfo{OS: currentOS(), IsCI: IsCI()}

	switch info.OS {
	case PlatformDarwin:
		info.NativeSynth = lookPathFirst("say")
		info.Players = availableCommands("afplay")
		info.Notifier = lookPathFirst("osascript")
	case PlatformWindows:
		info.NativeSynth = lookPathFirst("powershell")
		info.Players = availableCommands("powershell")
		info.Notifier = lookPathFirst("msg")
	case PlatformLinux:
		info.NativeSynth = lookPathFirst("espeak-ng", "espeak")
		info.Players = availableCommands("paplay", "aplay", "mpg123")
		info.Notifier = lookPathFirst("notify-send")
	}
	return info
}

func currentOS() Platform {
	switch runtime.GOOS {
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// IsCI reports whether the process runs in a CI environment.
func IsCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

func lookPathFirst(names ...string) string {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func availableCommands(names ...string) []string {
	var found []string
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			found = append(found, path)
		}
	}
	return found
}
