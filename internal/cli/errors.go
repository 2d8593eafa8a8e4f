package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates DEEPGRAM_API_KEY environment variable is not set.
	ErrAPIKeyMissing = errors.New("DEEPGRAM_API_KEY environment variable not set")

	// ErrOpenAIKeyMissing indicates OPENAI_API_KEY environment variable is not set.
	ErrOpenAIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")

	// ErrInvalidVideoURL indicates no video ID could be extracted from the input.
	ErrInvalidVideoURL = errors.New("invalid video URL")

	// ErrInvalidDuration indicates a non-positive chunk duration.
	ErrInvalidDuration = errors.New("invalid chunk duration")
)
