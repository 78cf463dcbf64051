package speech

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Speaker wraps a chain attempt, playback and a pacing hold into the single
// speak-and-act operation the rest of the system calls. The policy is
// "speak if possible, act regardless": synthesis and playback failures are
// absorbed here, only logged, and never keep the followup from running.
type Speaker struct {
	chain  *Chain
	player *Player
	pacing Pacing
	silent bool
}

// NewSpeaker assembles a Speaker. silent propagates to every request it
// issues.
func NewSpeaker(chain *Chain, player *Player, pacing Pacing, silent bool) *Speaker {
	return &Speaker{chain: chain, player: player, pacing: pacing, silent: silent}
}

// SpeakAndAct synthesizes and plays text, holds for the pacing duration,
// then runs followup. The calling flow suspends for the whole hold so
// subsequent automation cannot start before the line would plausibly have
// finished. A nil followup is allowed. Followup errors are logged and
// swallowed.
func (s *Speaker) SpeakAndAct(ctx context.Context, text string, followup func(context.Context) error) {
	req := Request{Text: text, Silent: s.silent}
	result, err := s.chain.Synthesize(ctx, req)
	if err != nil {
		log.Warn("synthesis failed, continuing without audio", "error", err)
	} else {
		log.Info("spoke line", "provider", result.Provider, "degraded", result.Degraded, "chars", len(text))
		s.playAndDiscard(ctx, result, req.Silent)
	}

	hold := s.pacing.Hold(text)
	log.Debug("holding for speech pacing", "hold", hold)
	sleepCtx(ctx, hold)

	if followup == nil {
		return
	}
	if err := followup(ctx); err != nil {
		log.Warn("followup action failed", "error", err)
	}
}

// Say speaks text with no followup action.
func (s *Speaker) Say(ctx context.Context, text string) {
	s.SpeakAndAct(ctx, text, nil)
}

// SayQuick synthesizes and plays text without the pacing hold. Tier-2 style
// light check-ins use it so frequent firings do not stall their tier.
func (s *Speaker) SayQuick(ctx context.Context, text string) {
	req := Request{Text: text, Silent: s.silent}
	result, err := s.chain.Synthesize(ctx, req)
	if err != nil {
		log.Warn("quick check-in synthesis failed", "error", err)
		return
	}
	s.playAndDiscard(ctx, result, req.Silent)
}

// Hold exposes the pacing estimate for a given text.
func (s *Speaker) Hold(text string) time.Duration {
	return s.pacing.Hold(text)
}

// playAndDiscard plays the result's artifact if one exists and then removes
// it best effort. Removal failure is logged, never escalated.
func (s *Speaker) playAndDiscard(ctx context.Context, result *Result, silent bool) {
	if result.Artifact == nil {
		return
	}
	play := s.player.Play(ctx, result.Artifact.Path, silent)
	if play.Err != nil {
		log.Warn("playback failed, swallowing", "mechanism", play.Mechanism, "error", play.Err)
	}
	if err := result.Artifact.Remove(); err != nil {
		log.Warn("failed to remove artifact", "path", result.Artifact.Path, "error", err)
	}
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
