package ffmpeg

import "errors"

// ErrNotFound indicates the FFmpeg binary is not installed or not on PATH.
var ErrNotFound = errors.New("ffmpeg not found")
