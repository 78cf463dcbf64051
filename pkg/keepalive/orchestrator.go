package keepalive

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/standinbot/standin/pkg/automation"
	"github.com/standinbot/standin/pkg/speech"
)

// Config holds the keep-alive schedule. Intervals are configuration, not
// contracts; the escalation ordering between the tiers is.
type Config struct {
	// Tier1Interval is the frequent passive tier (liveness poll + pointer
	// nudge).
	Tier1Interval time.Duration

	// Tier2Interval is the moderate tier (short audio check-in).
	Tier2Interval time.Duration

	// Tier3Interval is the infrequent heavy tier (full speak-and-act
	// status line plus UI touch).
	Tier3Interval time.Duration

	// Tier4Interval is the rare health-check tier.
	Tier4Interval time.Duration

	// HeavyTouchEvery makes every Kth tier-1 firing add a panel toggle on
	// top of the pointer nudge.
	HeavyTouchEvery int

	// RecoveryThreshold is the inactivity span after which any tier
	// triggers a recovery probe.
	RecoveryThreshold time.Duration

	// LockTimeout bounds how long a tier waits for the action lock before
	// skipping its firing.
	LockTimeout time.Duration

	// ActionTimeout bounds every single surface call. A call that does not
	// return in time counts as failed, so a wedged automation surface can
	// never hold the action lock past this deadline.
	ActionTimeout time.Duration

	// MaxSilence bounds how long the orchestrator keeps recovering a
	// session that is never observed alive. Once exceeded the session is
	// declared ended and Done fires. Zero disables the bound.
	MaxSilence time.Duration

	// StopGrace bounds how long Stop waits for in-flight firings.
	StopGrace time.Duration

	// CheckinPhrases is the tier-2 rotation.
	CheckinPhrases []string

	// StatusPhrase is the tier-3 long status line.
	StatusPhrase string

	// RecoveryPhrase is spoken by recovery probes.
	RecoveryPhrase string

	// GoodbyePhrase is the best-effort parting line on Stop.
	GoodbyePhrase string
}

// DefaultConfig returns the stock schedule.
func DefaultConfig() Config {
	return Config{
		Tier1Interval:     30 * time.Second,
		Tier2Interval:     4 * time.Minute,
		Tier3Interval:     12 * time.Minute,
		Tier4Interval:     30 * time.Minute,
		HeavyTouchEvery:   6,
		RecoveryThreshold: 10 * time.Minute,
		LockTimeout:       3 * time.Second,
		ActionTimeout:     10 * time.Second,
		MaxSilence:        30 * time.Minute,
		StopGrace:         10 * time.Second,
		CheckinPhrases: []string{
			"Still here and listening.",
			"Following along on my end.",
			"Connection looks good from here.",
		},
		StatusPhrase:   "Just checking in. Everything is running smoothly on my side, and I'm still following the discussion.",
		RecoveryPhrase: "Checking the connection. Can everyone still hear me?",
		GoodbyePhrase:  "Heading out now. Thanks, everyone.",
	}
}

// ErrNotStarted is returned by Stop before Start has run.
var ErrNotStarted = errors.New("keepalive: orchestrator not started")

// Orchestrator drives the four keep-alive tiers against one shared session.
// Tiers are scheduled independently and never delay each other; execution
// against the surface is serialized through the action lock. Only Stop
// terminates it, or the MaxSilence bound; a not-alive session never does.
type Orchestrator struct {
	surface automation.Surface
	speaker *speech.Speaker
	cfg     Config

	state *State
	lock  *ActionLock

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	done     chan struct{}
	doneOnce sync.Once
	started  bool
}

// New builds an Orchestrator. Zero config fields inherit defaults.
func New(surface automation.Surface, speaker *speech.Speaker, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.Tier1Interval <= 0 {
		cfg.Tier1Interval = def.Tier1Interval
	}
	if cfg.Tier2Interval <= 0 {
		cfg.Tier2Interval = def.Tier2Interval
	}
	if cfg.Tier3Interval <= 0 {
		cfg.Tier3Interval = def.Tier3Interval
	}
	if cfg.Tier4Interval <= 0 {
		cfg.Tier4Interval = def.Tier4Interval
	}
	if cfg.HeavyTouchEvery <= 0 {
		cfg.HeavyTouchEvery = def.HeavyTouchEvery
	}
	if cfg.RecoveryThreshold <= 0 {
		cfg.RecoveryThreshold = def.RecoveryThreshold
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = def.LockTimeout
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = def.ActionTimeout
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = def.StopGrace
	}
	if len(cfg.CheckinPhrases) == 0 {
		cfg.CheckinPhrases = def.CheckinPhrases
	}
	if cfg.StatusPhrase == "" {
		cfg.StatusPhrase = def.StatusPhrase
	}
	if cfg.RecoveryPhrase == "" {
		cfg.RecoveryPhrase = def.RecoveryPhrase
	}
	if cfg.GoodbyePhrase == "" {
		cfg.GoodbyePhrase = def.GoodbyePhrase
	}

	return &Orchestrator{
		surface: surface,
		speaker: speaker,
		cfg:     cfg,
		state:   NewState(time.Now()),
		lock:    NewActionLock(),
		done:    make(chan struct{}),
	}
}

// Start arms every tier. The orchestrator runs until Stop or, when a
// MaxSilence bound is set, until the session has not been observed alive
// for that long.
func (o *Orchestrator) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.started = true

	log.Info("keepalive armed",
		"tier1", o.cfg.Tier1Interval,
		"tier2", o.cfg.Tier2Interval,
		"tier3", o.cfg.Tier3Interval,
		"tier4", o.cfg.Tier4Interval,
		"recovery_threshold", o.cfg.RecoveryThreshold,
		"max_silence", o.cfg.MaxSilence)

	o.runTier(runCtx, 1, o.cfg.Tier1Interval, o.fireTier1)
	o.runTier(runCtx, 2, o.cfg.Tier2Interval, o.fireTier2)
	o.runTier(runCtx, 3, o.cfg.Tier3Interval, o.fireTier3)
	o.runTier(runCtx, 4, o.cfg.Tier4Interval, o.fireTier4)
}

// Done is closed when the MaxSilence bound declares the session ended.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// State exposes the shared activity state, mainly for logging and tests.
func (o *Orchestrator) State() *State {
	return o.state
}

// Stop cancels every tier, waits for in-flight firings up to the StopGrace
// period, and attempts a best-effort goodbye utterance whose failure never
// blocks shutdown.
func (o *Orchestrator) Stop(ctx context.Context) error {
	if !o.started {
		return ErrNotStarted
	}
	o.cancel()

	finished := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(o.cfg.StopGrace):
		log.Warn("keepalive stop grace expired with firings in flight")
	}

	byeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.StopGrace)
	defer cancel()
	// The goodbye competes with any firing that outlived the grace period,
	// so it takes the action lock best effort; failing to get it skips the
	// goodbye rather than interleaving audio with an in-flight action.
	if o.lock.TryAcquire(byeCtx, o.cfg.LockTimeout) {
		o.speaker.Say(byeCtx, o.cfg.GoodbyePhrase)
		o.lock.Release()
	} else {
		log.Warn("action lock still held at shutdown, skipping goodbye")
	}

	log.Info("keepalive stopped", "fires", o.state.Snapshot().Fires)
	return nil
}

// runTier arms one tier on its own ticker. A slow firing of one tier never
// delays another tier's schedule; it only skips its own overdue ticks.
func (o *Orchestrator) runTier(ctx context.Context, tier int, interval time.Duration, fire func(ctx context.Context, count int)) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				count := o.state.TierFired(tier)
				log.Debug("tier firing", "tier", tier, "count", count)
				fire(ctx, count)
				o.enforceSilenceBound()
			}
		}
	}()
}

// fireTier1 is the frequent passive tier: poll liveness, nudge the pointer,
// and every Kth firing toggle a neutral panel. Not-alive escalates straight
// to a recovery probe instead of waiting for a slower tier.
func (o *Orchestrator) fireTier1(ctx context.Context, count int) {
	if !o.observeLiveness(ctx, 1) {
		o.recoveryProbe(ctx, "tier1 liveness lost")
		return
	}

	o.withLock(ctx, func(ctx context.Context) {
		if err := o.performAction(ctx, automation.ActionNudgePointer); err != nil {
			log.Warn("pointer nudge failed", "error", err)
		}
		if count%o.cfg.HeavyTouchEvery == 0 {
			if err := o.performAction(ctx, automation.ActionTogglePanel); err != nil {
				log.Warn("panel toggle failed", "error", err)
			}
		}
	})
	o.recoverIfStale(ctx)
}

// fireTier2 is the moderate tier: a short check-in line from the rotation.
func (o *Orchestrator) fireTier2(ctx context.Context, count int) {
	if !o.observeLiveness(ctx, 2) {
		o.recoverIfStale(ctx)
		return
	}

	phrase := o.cfg.CheckinPhrases[(count-1)%len(o.cfg.CheckinPhrases)]
	o.withLock(ctx, func(ctx context.Context) {
		o.speaker.SayQuick(ctx, phrase)
		o.state.Touch(time.Now())
	})
	o.recoverIfStale(ctx)
}

// fireTier3 is the heavy tier: the full speak-and-act status line followed
// by a heavier UI touch.
func (o *Orchestrator) fireTier3(ctx context.Context, _ int) {
	if !o.observeLiveness(ctx, 3) {
		o.recoverIfStale(ctx)
		return
	}

	o.withLock(ctx, func(ctx context.Context) {
		o.speaker.SpeakAndAct(ctx, o.cfg.StatusPhrase, func(ctx context.Context) error {
			return o.performAction(ctx, automation.ActionTogglePanel)
		})
		o.state.Touch(time.Now())
	})
	o.recoverIfStale(ctx)
}

// fireTier4 is the rare health check. When the primary liveness signal is
// gone it looks for any broader structural signal; finding one means the
// session is recoverable and earns an audio probe. Finding none is logged
// as terminal-looking but does not stop the orchestrator; transient
// detection failures are common and a later tier may re-establish liveness.
func (o *Orchestrator) fireTier4(ctx context.Context, _ int) {
	if o.observeLiveness(ctx, 4) {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.ActionTimeout)
	defer cancel()
	signal, err := o.surface.HasPresenceSignal(callCtx)
	if err != nil {
		log.Warn("structural presence check failed", "error", err)
		return
	}
	if signal {
		o.recoveryProbe(ctx, "structural signal without liveness")
		return
	}
	log.Error("no session signal found at all; continuing on the chance detection is transient",
		"since_alive", o.state.SinceAlive(time.Now()))
}

// performAction runs one surface action under the bounded action deadline.
// Expiry comes back as an ordinary error, same as any failed call.
func (o *Orchestrator) performAction(ctx context.Context, action automation.Action) error {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.ActionTimeout)
	defer cancel()
	return o.surface.PerformAction(ctx, action)
}

// observeLiveness asks the oracle and records the answer. An oracle error
// is treated as not-alive for escalation, never as fatal.
func (o *Orchestrator) observeLiveness(ctx context.Context, tier int) bool {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.ActionTimeout)
	defer cancel()
	alive, err := o.surface.IsSessionAlive(callCtx)
	if err != nil {
		log.Warn("liveness unknown, treating as not alive", "tier", tier, "error", err)
		return false
	}
	if alive {
		o.state.MarkAlive(time.Now())
	}
	return alive
}

// recoverIfStale applies the cross-tier recovery rule: whichever tier
// notices the activity clock past the threshold runs a recovery probe.
func (o *Orchestrator) recoverIfStale(ctx context.Context) {
	if o.state.SinceActivity(time.Now()) <= o.cfg.RecoveryThreshold {
		return
	}
	o.recoveryProbe(ctx, "activity stale")
}

// recoveryProbe performs one audio check-in and a benign UI touch under the
// action lock, then resets the activity clock. Tiers that lose the race for
// the lock skip; at most one probe runs per lock window.
func (o *Orchestrator) recoveryProbe(ctx context.Context, reason string) {
	acquired := o.withLock(ctx, func(ctx context.Context) {
		log.Info("recovery probe", "reason", reason)
		o.speaker.SayQuick(ctx, o.cfg.RecoveryPhrase)
		if err := o.performAction(ctx, automation.ActionNudgePointer); err != nil {
			log.Warn("recovery UI touch failed", "error", err)
		}
		o.state.Touch(time.Now())
	})
	if !acquired {
		log.Debug("recovery probe skipped, action lock busy", "reason", reason)
	}
}

// withLock runs fn while holding the action lock, or skips it when the lock
// cannot be acquired within the configured timeout. Returns whether fn ran.
func (o *Orchestrator) withLock(ctx context.Context, fn func(ctx context.Context)) bool {
	if !o.lock.TryAcquire(ctx, o.cfg.LockTimeout) {
		log.Debug("action lock busy, skipping firing")
		return false
	}
	defer o.lock.Release()
	fn(ctx)
	return true
}

// enforceSilenceBound declares the session ended after MaxSilence without a
// single successful liveness observation. The original system recovered
// forever; the bound makes "signal gone for good" distinguishable from a
// transient outage.
func (o *Orchestrator) enforceSilenceBound() {
	if o.cfg.MaxSilence <= 0 {
		return
	}
	if silence := o.state.SinceAlive(time.Now()); silence > o.cfg.MaxSilence {
		o.doneOnce.Do(func() {
			log.Error("session not seen alive within bound, declaring it ended",
				"silence", silence, "max_silence", o.cfg.MaxSilence)
			close(o.done)
		})
	}
}
