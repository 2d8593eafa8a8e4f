// Package audio splits a downloaded audio file into fixed-duration chunks
// sized for one transcription request each.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-ytscribe/internal/ffmpeg"
	"github.com/alnah/go-ytscribe/internal/format"
)

// Compile-time interface implementation check.
var _ Chunker = (*TimeChunker)(nil)

// DefaultChunkDuration bounds per-request latency and keeps each request
// under the transcription service's per-call size limits.
const DefaultChunkDuration = 5 * time.Minute

// Chunk represents a contiguous time slice of the source audio, serialized
// to its own encoded file. Chunks are ephemeral: they exist only for the
// duration of a pipeline run and are removed by CleanupChunks.
type Chunk struct {
	Path      string        // Absolute path to the chunk file.
	Index     int           // Zero-based index for ordering.
	StartTime time.Duration // Start offset in the source audio.
	EndTime   time.Duration // End offset in the source audio.
}

// Duration returns the length of this chunk.
func (c Chunk) Duration() time.Duration {
	return c.EndTime - c.StartTime
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %s-%s",
		c.Index,
		format.Duration(c.StartTime),
		format.Duration(c.EndTime))
}

// Chunker splits an audio file into smaller chunks suitable for transcription.
type Chunker interface {
	// Chunk splits audioPath into multiple chunk files.
	// Returns chunks ordered by their position in the source audio.
	// The caller is responsible for cleaning up the returned chunk files.
	Chunk(ctx context.Context, audioPath string) ([]Chunk, error)
}

// TimeChunker splits audio into consecutive fixed-duration segments.
// A file of length L with chunk duration D yields ceil(L/D) chunks: every
// chunk is exactly D long except the last, which carries the remainder.
// Nothing is padded or dropped.
type TimeChunker struct {
	ffmpegPath    string
	chunkDuration time.Duration

	// Injectable dependencies (defaults to OS implementations).
	cmd     commandRunner
	tempDir tempDirCreator
	files   fileRemover
}

// TimeChunkerOption configures a TimeChunker.
type TimeChunkerOption func(*TimeChunker)

// WithCommandRunner sets the command runner.
func WithCommandRunner(r commandRunner) TimeChunkerOption {
	return func(tc *TimeChunker) { tc.cmd = r }
}

// WithTempDirCreator sets the temp directory creator.
func WithTempDirCreator(t tempDirCreator) TimeChunkerOption {
	return func(tc *TimeChunker) { tc.tempDir = t }
}

// WithFileRemover sets the file remover.
func WithFileRemover(f fileRemover) TimeChunkerOption {
	return func(tc *TimeChunker) { tc.files = f }
}

// NewTimeChunker creates a TimeChunker cutting chunks of chunkDuration.
// A non-positive duration falls back to DefaultChunkDuration.
func NewTimeChunker(ffmpegPath string, chunkDuration time.Duration, opts ...TimeChunkerOption) (*TimeChunker, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	if chunkDuration <= 0 {
		chunkDuration = DefaultChunkDuration
	}

	tc := &TimeChunker{
		ffmpegPath:    ffmpegPath,
		chunkDuration: chunkDuration,
		cmd:           osCommandRunner{},
		tempDir:       osTempDirCreator{},
		files:         osFileRemover{},
	}

	for _, opt := range opts {
		opt(tc)
	}

	return tc, nil
}

// Chunk splits the audio file into consecutive fixed-duration segments.
func (tc *TimeChunker) Chunk(ctx context.Context, audioPath string) ([]Chunk, error) {
	totalDuration, err := tc.probeDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe audio duration: %w", err)
	}

	tempDir, err := tc.tempDir.MkdirTemp("", "ytscribe-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	boundaries := partition(totalDuration, tc.chunkDuration)

	chunks := make([]Chunk, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		start := boundaries[i]
		end := boundaries[i+1]

		chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%03d.mp3", i))
		if err := tc.extractChunk(ctx, audioPath, chunkPath, start, end); err != nil {
			_ = tc.files.RemoveAll(tempDir) // best-effort cleanup; original error takes precedence
			return nil, err
		}

		chunks = append(chunks, Chunk{
			Path:      chunkPath,
			Index:     i,
			StartTime: start,
			EndTime:   end,
		})
	}

	return chunks, nil
}

// partition returns the chunk boundaries [0, D, 2D, ..., total] for a file
// of the given total length. The final segment holds the remainder; a total
// that divides evenly produces no trailing short segment.
func partition(total, chunkDuration time.Duration) []time.Duration {
	if total <= 0 {
		return []time.Duration{0, 0}
	}

	boundaries := []time.Duration{0}
	for cut := chunkDuration; cut < total; cut += chunkDuration {
		boundaries = append(boundaries, cut)
	}
	boundaries = append(boundaries, total)
	return boundaries
}

// probeDuration returns the duration of an audio file using ffmpeg.
func (tc *TimeChunker) probeDuration(ctx context.Context, audioPath string) (time.Duration, error) {
	// The -i flag with a null muxer makes ffmpeg print file info including duration.
	args := []string{
		"-i", audioPath,
		"-f", "null", "-",
	}
	output, err := tc.cmd.CombinedOutput(ctx, tc.ffmpegPath, args)
	if err != nil {
		// FFmpeg returns non-zero even when it successfully reads file info,
		// so we try to parse the output anyway.
		if len(output) == 0 {
			return 0, err
		}
	}

	return parseDurationFromFFmpegOutput(string(output))
}

// parseDurationFromFFmpegOutput extracts duration from FFmpeg stderr.
// Looks for: "Duration: HH:MM:SS.ms" or "time=HH:MM:SS.ms"
func parseDurationFromFFmpegOutput(output string) (time.Duration, error) {
	// Pattern: Duration: 00:05:23.45
	durationRe := regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)
	if matches := durationRe.FindStringSubmatch(output); matches != nil {
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	// Fallback pattern: time=00:05:23.45 (from progress output).
	// Use the last match (final time).
	timeRe := regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
	allMatches := timeRe.FindAllStringSubmatch(output, -1)
	if len(allMatches) > 0 {
		matches := allMatches[len(allMatches)-1]
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	return 0, fmt.Errorf("could not parse duration from ffmpeg output")
}

// parseTimeComponents converts HH:MM:SS.ms strings to Duration.
func parseTimeComponents(hours, minutes, seconds, fractional string) (time.Duration, error) {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	// Normalize fractional part to milliseconds.
	// Input may be 1-6+ digits (e.g., ".4", ".45", ".456", ".456789").
	frac, _ := strconv.Atoi(fractional)
	ms := frac
	switch n := len(fractional); {
	case n == 1:
		ms = frac * 100
	case n == 2:
		ms = frac * 10
	case n == 3:
		// Already milliseconds.
	case n > 3:
		for i := n; i > 3; i-- {
			ms /= 10
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// chunkEncodingArgs returns FFmpeg encoding arguments for chunk extraction.
// Re-encodes to 64kbps mono MP3, matching the downloaded audio format and
// the audio/mp3 MIME type of the transcription request.
func chunkEncodingArgs() []string {
	return []string{
		"-c:a", "libmp3lame",
		"-b:a", "64k",
		"-ac", "1",
	}
}

// extractChunk extracts a segment from audioPath to chunkPath.
// Re-encodes to ensure valid output even from corrupted/truncated sources.
func (tc *TimeChunker) extractChunk(ctx context.Context, audioPath, chunkPath string, start, end time.Duration) error {
	args := []string{
		"-y",
		"-i", audioPath,
		"-ss", formatFFmpegTime(start),
		"-to", formatFFmpegTime(end),
	}
	args = append(args, chunkEncodingArgs()...)
	args = append(args, chunkPath)

	output, err := tc.cmd.CombinedOutput(ctx, tc.ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: failed to extract chunk %s: %v\nOutput: %s",
			ErrChunkingFailed, chunkPath, err, string(output))
	}
	return nil
}

// formatFFmpegTime formats a duration for FFmpeg -ss/-to arguments.
func formatFFmpegTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

// CleanupChunks removes all chunk files and their parent directory.
// Call this after transcription is complete.
func CleanupChunks(chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	// All chunks live in the same temp directory.
	tempDir := filepath.Dir(chunks[0].Path)

	// Safety check: don't delete arbitrary directories.
	if !strings.Contains(tempDir, "ytscribe-") {
		for _, chunk := range chunks {
			_ = os.Remove(chunk.Path) // best-effort cleanup; files may already be gone
		}
		return nil
	}

	return os.RemoveAll(tempDir)
}
