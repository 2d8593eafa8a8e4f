package audio

import "errors"

// ErrChunkingFailed indicates FFmpeg failed during audio chunking.
var ErrChunkingFailed = errors.New("audio chunking failed")
