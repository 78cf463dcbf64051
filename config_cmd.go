package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# meeting to join when no URL is given on the command line
# meeting_url: "https://meet.example.com/standup"

# suppress device playback, log what would have played
silent: false
# verbose logging
debug: false

# synthesized audio artifacts
artifacts:
  # directory for generated audio files (default: system temp dir)
  # dir: "/tmp/standin"
  # remove leftover artifacts older than this at startup
  max_age: "1h"

# per-invocation cap for helper subprocesses (say, espeak-ng, players)
command_timeout: "10s"

# synthesis providers, tried in order until one succeeds
providers:
  order: ["remote", "piper", "native", "notify"]

  # hosted synthesis API
  remote:
    # endpoint: "https://tts.example.com/v1/synthesize"
    # api_key: "your-api-key-here"
    voice: "en_US-amy"
    format: "wav"
    timeout: "15s"
    requests_per_minute: 30

  # local piper binary
  piper:
    binary: "piper"
    # model: "/path/to/en_US-lessac-medium.onnx"

# how long to hold the floor after an utterance
pacing:
  floor: "2s"
  words_per_second: 2.5
  pause_per_mark: "200ms"

# synthetic activity schedule
keepalive:
  tier1: "30s"
  tier2: "4m"
  tier3: "12m"
  tier4: "30m"
  # every Nth tier-1 firing also toggles a panel
  heavy_touch_every: 6
  # recover immediately when no activity for this long
  recovery_threshold: "10m"
  # give up waiting for a free action slot after this long
  lock_timeout: "3s"
  # declare the session ended after this much silence (0 = never)
  max_silence: "30m"

# what standin says
phrases:
  hello: "Hello everyone, I've joined the call."
  status: "Still here, just listening along."
  recovery: "Sorry, I dropped for a moment. I'm back now."
  goodbye: "Thanks everyone, I have to drop. Bye!"
  checkins:
    - "Mm-hmm."
    - "Right."
    - "Makes sense."
    - "Okay."
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the standin config file",
	Long:    "\nEdit the standin config file. We'll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.",
	Example: "standin config\nstandin config --config path/to/config.yml",
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Standin", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
