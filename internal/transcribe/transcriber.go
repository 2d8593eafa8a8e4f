// Package transcribe converts audio buffers to text through a hosted
// speech-to-text API and runs the chunked transcription pipeline.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-ytscribe/internal/audio"
)

// MimeTypeMP3 is the MIME type submitted with each chunk buffer.
const MimeTypeMP3 = "audio/mp3"

// FailedChunkPlaceholder is substituted for any chunk whose transcription
// failed. A single bad chunk degrades to one placeholder segment instead of
// losing the entire transcript.
const FailedChunkPlaceholder = "[transcription failed]"

// MaxRecommendedParallel is the recommended upper limit for concurrent API
// requests. Higher values may trigger rate limiting.
const MaxRecommendedParallel = 10

// Options configures a transcription request.
type Options struct {
	// Model is the provider model identifier.
	Model string

	// Language is the audio language code passed to the provider.
	Language string

	// SmartFormat requests formatted output (punctuation, numerals, dates).
	SmartFormat bool

	// Paragraphs requests paragraph-segmented output.
	Paragraphs bool

	// Diarize requests speaker-separated output.
	Diarize bool
}

// DefaultOptions returns the standard transcription options:
// nova-2, English, with formatting, paragraphs, and diarization enabled.
func DefaultOptions() Options {
	return Options{
		Model:       "nova-2",
		Language:    "en",
		SmartFormat: true,
		Paragraphs:  true,
		Diarize:     true,
	}
}

// Transcriber transcribes a single encoded audio buffer to text.
type Transcriber interface {
	// Transcribe submits the audio buffer with the given MIME type and
	// returns the plain-text transcript.
	Transcribe(ctx context.Context, audio []byte, mimeType string, opts Options) (string, error)
}

// WarnFunc is a callback for warning messages during the pipeline.
// Set to nil to suppress warnings.
type WarnFunc func(msg string)

// TranscribeChunks transcribes chunks and returns one text segment per
// chunk, in chunk-index order. A chunk that cannot be read or transcribed
// yields FailedChunkPlaceholder and never aborts the run; the error is
// reported through warn.
//
// maxParallel bounds concurrent API requests. The default pipeline runs with
// maxParallel = 1: chunks are submitted one at a time, in order, each call
// blocking until response or timeout.
func TranscribeChunks(
	ctx context.Context,
	chunks []audio.Chunk,
	t Transcriber,
	opts Options,
	maxParallel int,
	warn WarnFunc,
) []string {
	if len(chunks) == 0 {
		return nil
	}

	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([]string, len(chunks))

	// Plain group, not WithContext: one chunk's failure must not cancel its
	// siblings. Per-chunk errors are absorbed into placeholders below.
	var g errgroup.Group
	g.SetLimit(maxParallel)

	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			text, err := transcribeChunk(ctx, chunk, t, opts)
			if err != nil {
				if warn != nil {
					warn(fmt.Sprintf("Warning: %s: %v", chunk, err))
				}
				results[chunk.Index] = FailedChunkPlaceholder
				return nil
			}
			results[chunk.Index] = text
			return nil
		})
	}

	_ = g.Wait() // never returns an error; failures become placeholders

	return results
}

// transcribeChunk reads one chunk file into memory and submits it.
func transcribeChunk(ctx context.Context, chunk audio.Chunk, t Transcriber, opts Options) (string, error) {
	data, err := os.ReadFile(chunk.Path) // #nosec G304 -- chunk paths come from the internal chunker
	if err != nil {
		return "", fmt.Errorf("cannot read chunk file: %w", err)
	}
	return t.Transcribe(ctx, data, MimeTypeMP3, opts)
}

// JoinSegments concatenates chunk segments, in original order, with a single
// space separator.
func JoinSegments(segments []string) string {
	return strings.Join(segments, " ")
}
