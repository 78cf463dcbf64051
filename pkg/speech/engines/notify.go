package engines

import (
	"context"
	"fmt"
	"strings"

	"github.com/standinbot/standin/pkg/speech"
)

// Notify is the last resort in the chain: when no synthesizer works at all
// it raises a desktop notification carrying the text, producing observable
// activity without audio. It returns an empty artifact path so callers know
// there is nothing to play.
type Notify struct {
	platform *speech.PlatformInfo
	runner   *speech.Runner
	title    string
}

// NewNotify creates the degraded notification provider.
func NewNotify(title string, runner *speech.Runner) *Notify {
	if title == "" {
		title = "standin"
	}
	return &Notify{
		platform: speech.HostPlatform(),
		runner:   runner,
		title:    title,
	}
}

// Name implements speech.Provider.
func (n *Notify) Name() string { return "notify" }

// Available implements speech.Provider.
func (n *Notify) Available() bool { return n.platform.Notifier != "" }

// Synthesize shows the text as a notification. The empty path marks a
// degraded, non-audio result.
func (n *Notify) Synthesize(ctx context.Context, text string) (string, error) {
	if n.platform.Notifier == "" {
		return "", fmt.Errorf("no notifier on %s", n.platform.OS)
	}

	var err error
	switch n.platform.OS {
	case speech.PlatformLinux:
		_, err = n.runner.Run(ctx, n.platform.Notifier, n.title, text)
	case speech.PlatformDarwin:
		script := fmt.Sprintf("display notification %q with title %q",
			strings.ReplaceAll(text, `"`, `\"`), n.title)
		_, err = n.runner.Run(ctx, n.platform.Notifier, "-e", script)
	case speech.PlatformWindows:
		_, err = n.runner.Run(ctx, n.platform.Notifier, "*", fmt.Sprintf("%s: %s", n.title, text))
	default:
		err = fmt.Errorf("unsupported platform %s", n.platform.OS)
	}
	if err != nil {
		return "", err
	}
	return "", nil
}
