package speech

import (
	"runtime"
	"testing"
)

func TestHostPlatformStable(t *testing.T) {
	first := HostPlatform()
	second := HostPlatform()
	if first != second {
		t.Error("Expected HostPlatform to return the same instance")
	}
	if first.OS == "" {
		t.Error("Expected a detected OS")
	}
}

func TestCurrentOSMatchesRuntime(t *testing.T) {
	got := currentOS()
	switch runtime.GOOS {
	case "linux":
		if got != PlatformLinux {
			t.Errorf("Expected linux, got %q", got)
		}
	case "darwin":
		if got != PlatformDarwin {
			t.Errorf("Expected darwin, got %q", got)
		}
	case "windows":
		if got != PlatformWindows {
			t.Errorf("Expected windows, got %q", got)
		}
	default:
		if got != PlatformUnknown {
			t.Errorf("Expected unknown, got %q", got)
		}
	}
}

func TestIsCI(t *testing.T) {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(v, "")
	}
	if IsCI() {
		t.Error("Expected IsCI false with CI env cleared")
	}

	t.Setenv("GITHUB_ACTIONS", "true")
	if !IsCI() {
		t.Error("Expected IsCI true with GITHUB_ACTIONS set")
	}
}

func TestLookPathFirst(t *testing.T) {
	if got := lookPathFirst("definitely-not-a-command-xyz"); got != "" {
		t.Errorf("Expected empty path for missing command, got %q", got)
	}
}
