// Package main provides the entry point for the standin CLI, an unattended
// meeting keeper: it joins a conference session through an automation
// surface, announces itself over the synthesis pipeline, and keeps the
// session alive until told to leave.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/standinbot/standin/pkg/automation"
	"github.com/standinbot/standin/pkg/keepalive"
	"github.com/standinbot/standin/pkg/speech"
	"github.com/standinbot/standin/pkg/speech/engines"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	silent     bool
	rehearse   bool

	rootCmd = &cobra.Command{
		Use:   "standin [MEETING-URL]",
		Short: "Keep a seat warm in a meeting, unattended",
		Long: "\nJoin a conference session and keep it alive: standin speaks through a" +
			"\ncascading text-to-speech chain and schedules synthetic activity so the" +
			"\nsession never goes idle.",
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: run,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") && configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	// grab config values from Viper
	if !cmd.Flags().Changed("silent") {
		silent = viper.GetBool("silent")
	}
	if !cmd.Flags().Changed("rehearse") {
		rehearse = viper.GetBool("rehearse")
	}
	return nil
}

// envOverrides are runtime settings that can be supplied without touching
// the config file, mainly for containerized runs.
type envOverrides struct {
	RemoteEndpoint string `env:"STANDIN_REMOTE_ENDPOINT"`
	RemoteAPIKey   string `env:"STANDIN_REMOTE_API_KEY"`
	Silent         bool   `env:"STANDIN_SILENT"`
	Debug          bool   `env:"STANDIN_DEBUG"`
}

func run(cmd *cobra.Command, args []string) error {
	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	if overrides.Debug || viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	if overrides.Silent {
		silent = true
	}

	target := ""
	if len(args) > 0 {
		target = args[0]
	} else if target = viper.GetString("meeting_url"); target == "" && !rehearse {
		return fmt.Errorf("no meeting URL given (pass one or set meeting_url, or use --rehearse)")
	}

	watchConfigFile()

	namer, err := speech.NewNamer(expandPath(viper.GetString("artifacts.dir")), speech.DefaultArtifactPrefix)
	if err != nil {
		return err
	}
	namer.Sweep(viper.GetDuration("artifacts.max_age"))

	runner := speech.NewRunner(viper.GetDuration("command_timeout"))

	chainCfg := engines.ChainConfig{
		Order: viper.GetStringSlice("providers.order"),
		Remote: engines.RemoteConfig{
			Endpoint:          firstNonEmpty(overrides.RemoteEndpoint, viper.GetString("providers.remote.endpoint")),
			APIKey:            firstNonEmpty(overrides.RemoteAPIKey, viper.GetString("providers.remote.api_key")),
			Voice:             viper.GetString("providers.remote.voice"),
			Format:            viper.GetString("providers.remote.format"),
			Timeout:           viper.GetDuration("providers.remote.timeout"),
			RequestsPerMinute: viper.GetInt("providers.remote.requests_per_minute"),
		},
		Piper: engines.PiperConfig{
			Binary:    viper.GetString("providers.piper.binary"),
			ModelPath: expandPath(viper.GetString("providers.piper.model")),
		},
		NotifyTitle: "standin",
	}
	chain, err := engines.BuildChain(chainCfg, namer, runner)
	if err != nil {
		return err
	}
	log.Info("synthesis chain built", "providers", chain.Providers(), "silent", silent)

	pacing := speech.DefaultPacing()
	if v := viper.GetDuration("pacing.floor"); v > 0 {
		pacing.Floor = v
	}
	if v := viper.GetFloat64("pacing.words_per_second"); v > 0 {
		pacing.WordsPerSecond = v
	}
	if v := viper.GetDuration("pacing.pause_per_mark"); v > 0 {
		pacing.PausePerMark = v
	}

	player := speech.NewPlayer(runner)
	speaker := speech.NewSpeaker(chain, player, pacing, silent)

	// The real browser driver plugs in behind automation.Surface; without
	// one this binary runs against the rehearsal surface.
	surface := automation.Surface(automation.NewRehearsal())

	return runSession(cmd.Context(), surface, speaker, target)
}

func runSession(ctx context.Context, surface automation.Surface, speaker *speech.Speaker, target string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := surface.Join(ctx, target); err != nil {
		return fmt.Errorf("unable to join session: %w", err)
	}
	log.Info("joined session", "target", target)

	speaker.Say(ctx, viper.GetString("phrases.hello"))

	orch := keepalive.New(surface, speaker, keepaliveConfig())
	orch.Start(ctx)

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case <-orch.Done():
		log.Warn("session declared ended by keepalive")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := orch.Stop(stopCtx); err != nil {
		log.Warn("keepalive stop reported", "error", err)
	}
	if err := surface.Leave(stopCtx); err != nil {
		log.Warn("leave failed", "error", err)
	}
	return nil
}

func keepaliveConfig() keepalive.Config {
	cfg := keepalive.DefaultConfig()
	if v := viper.GetDuration("keepalive.tier1"); v > 0 {
		cfg.Tier1Interval = v
	}
	if v := viper.GetDuration("keepalive.tier2"); v > 0 {
		cfg.Tier2Interval = v
	}
	if v := viper.GetDuration("keepalive.tier3"); v > 0 {
		cfg.Tier3Interval = v
	}
	if v := viper.GetDuration("keepalive.tier4"); v > 0 {
		cfg.Tier4Interval = v
	}
	if v := viper.GetInt("keepalive.heavy_touch_every"); v > 0 {
		cfg.HeavyTouchEvery = v
	}
	if v := viper.GetDuration("keepalive.recovery_threshold"); v > 0 {
		cfg.RecoveryThreshold = v
	}
	if v := viper.GetDuration("keepalive.lock_timeout"); v > 0 {
		cfg.LockTimeout = v
	}
	if viper.IsSet("keepalive.max_silence") {
		cfg.MaxSilence = viper.GetDuration("keepalive.max_silence")
	}
	if v := viper.GetStringSlice("phrases.checkins"); len(v) > 0 {
		cfg.CheckinPhrases = v
	}
	if v := viper.GetString("phrases.status"); v != "" {
		cfg.StatusPhrase = v
	}
	if v := viper.GetString("phrases.recovery"); v != "" {
		cfg.RecoveryPhrase = v
	}
	if v := viper.GetString("phrases.goodbye"); v != "" {
		cfg.GoodbyePhrase = v
	}
	return cfg
}

// watchConfigFile logs edits to the config file while a session runs.
// Schedules are read once at startup; the log line tells the operator a
// restart is needed for changes to apply.
func watchConfigFile() {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info("config file changed; restart to apply", "file", e.Name, "op", e.Op.String())
	})
	viper.WatchConfig()
}

// expandPath resolves a leading ~ in user-supplied paths.
func expandPath(path string) string {
	if path == "" {
		return ""
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		log.Warn("could not expand path", "path", path, "error", err)
		return path
	}
	return expanded
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetTimeFormat(time.Kitchen)

	// When stderr is not a terminal (service runs), log to a file so the
	// session history survives.
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return func() error { return nil }, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return func() error { return nil }, nil //nolint:nilerr
	}
	dir := filepath.Join(cacheDir, "standin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return func() error { return nil }, nil //nolint:nilerr
	}
	f, err := os.OpenFile(filepath.Join(dir, "standin.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return func() error { return nil }, nil //nolint:nilerr
	}
	log.SetOutput(f)
	return f.Close, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().BoolVarP(&silent, "silent", "s", false, "suppress device playback, log what would have played")
	rootCmd.Flags().BoolVarP(&rehearse, "rehearse", "r", false, "dry run against the rehearsal surface, no browser")

	_ = viper.BindPFlag("silent", rootCmd.Flags().Lookup("silent"))
	_ = viper.BindPFlag("rehearse", rootCmd.Flags().Lookup("rehearse"))

	viper.SetDefault("debug", false)
	viper.SetDefault("artifacts.max_age", time.Hour)
	viper.SetDefault("command_timeout", speech.DefaultCommandTimeout)
	viper.SetDefault("phrases.hello", "Hello everyone, I've joined the call.")
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "standin")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "standin")}, dirs...)
	}

	if c := os.Getenv("STANDIN_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("standin")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("standin")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "standin.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
