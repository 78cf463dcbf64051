// Package automation defines the contract with the external browser
// automation collaborator. The core only calls this surface; the real
// driver (selectors, navigation, login) lives outside this repository.
package automation

import "context"

// Action identifies a synthetic UI interaction on the shared surface.
type Action string

const (
	// ActionNudgePointer is a harmless pointer movement.
	ActionNudgePointer Action = "nudge-pointer"

	// ActionTogglePanel opens and closes a neutral panel, a slightly
	// heavier but still non-destructive touch.
	ActionTogglePanel Action = "toggle-panel"

	// ActionOpenChat brings up the chat panel.
	ActionOpenChat Action = "open-chat"

	// ActionDismissDialog closes any blocking dialog.
	ActionDismissDialog Action = "dismiss-dialog"
)

// Surface is the shared session resource every keep-alive tier drives.
// Concurrent liveness reads are safe; actions must be serialized by the
// caller (the keep-alive action lock) because the implementation drives a
// single browser session.
type Surface interface {
	// IsSessionAlive answers the liveness oracle. An error means the
	// status could not be determined; callers treat that as not-alive for
	// escalation purposes but never as fatal.
	IsSessionAlive(ctx context.Context) (bool, error)

	// HasPresenceSignal performs the deeper structural existence check the
	// rare health-check tier falls back to when the primary liveness
	// signal is gone.
	HasPresenceSignal(ctx context.Context) (bool, error)

	// PerformAction executes one synthetic UI interaction.
	PerformAction(ctx context.Context, action Action) error

	// Navigate points the session at a target.
	Navigate(ctx context.Context, target string) error

	// Join enters the session at target.
	Join(ctx context.Context, target string) error

	// Leave tears the session down.
	Leave(ctx context.Context) error
}
