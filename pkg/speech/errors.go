package speech

import "errors"

// Sentinel errors for the synthesis pipeline.
var (
	// ErrEmptyText indicates a synthesis request with no text.
	ErrEmptyText = errors.New("empty text")

	// ErrNoProviders indicates a chain constructed with no providers.
	ErrNoProviders = errors.New("no synthesis providers configured")

	// ErrProviderUnavailable indicates a provider's runtime availability
	// check failed before synthesis was attempted.
	ErrProviderUnavailable = errors.New("synthesis provider unavailable")

	// ErrChainExhausted indicates every configured provider was attempted
	// in order and none succeeded. It is surfaced as a definite failure and
	// never retried by the chain itself.
	ErrChainExhausted = errors.New("all synthesis providers failed")

	// ErrArtifactMissing indicates a provider reported success but the
	// artifact it named does not exist.
	ErrArtifactMissing = errors.New("synthesis artifact missing")
)
