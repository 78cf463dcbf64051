package engines

import (
	"fmt"

	"github.com/standinbot/standin/pkg/speech"
)

// ChainConfig describes which providers to build and in what order.
type ChainConfig struct {
	// Order lists provider names by priority. Defaults to
	// remote, piper, native, notify.
	Order []string

	Remote RemoteConfig
	Piper  PiperConfig

	// NotifyTitle is the title of degraded desktop notifications.
	NotifyTitle string
}

// DefaultOrder is the stock provider priority: remote API, local voice
// engine, OS-native synthesizer, degraded notification.
var DefaultOrder = []string{"remote", "piper", "native", "notify"}

// BuildChain constructs the provider chain from config. The result is the
// explicit, immutable chain configuration handed to the speaker at startup;
// no provider state lives in package globals.
func BuildChain(cfg ChainConfig, namer *speech.Namer, runner *speech.Runner) (*speech.Chain, error) {
	order := cfg.Order
	if len(order) == 0 {
		order = DefaultOrder
	}

	providers := make([]speech.Provider, 0, len(order))
	for _, name := range order {
		switch name {
		case "remote":
			providers = append(providers, NewRemote(cfg.Remote, namer))
		case "piper":
			providers = append(providers, NewPiper(cfg.Piper, namer, runner))
		case "native":
			providers = append(providers, NewNative(namer, runner))
		case "notify":
			providers = append(providers, NewNotify(cfg.NotifyTitle, runner))
		default:
			return nil, fmt.Errorf("unknown synthesis provider %q", name)
		}
	}
	return speech.NewChain(providers...)
}
