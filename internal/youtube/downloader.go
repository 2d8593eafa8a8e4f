// Package youtube resolves a video ID to a local audio file, downloading
// and transcoding through yt-dlp on a cache miss.
package youtube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Compile-time interface implementation check.
var _ Downloader = (*YtdlpDownloader)(nil)

// Environment variable for a custom yt-dlp path.
const envYtdlpPath = "YTDLP_PATH"

// audioQuality is the MP3 bitrate requested from yt-dlp.
// 64 kbps keeps files small while remaining good enough for speech.
const audioQuality = "64K"

// watchURLPrefix rebuilds a canonical watch URL from a video ID.
const watchURLPrefix = "https://www.youtube.com/watch?v="

// Downloader resolves a video ID to a local audio file and a display title.
type Downloader interface {
	// Fetch returns the path of the cached or freshly downloaded audio file
	// for videoID, plus the video's display title. On a cache hit the title
	// falls back to the video ID itself.
	Fetch(ctx context.Context, videoID string) (path, title string, err error)
}

// YtdlpDownloader fetches audio by shelling out to yt-dlp, which handles
// both the download and the MP3 transcode (via its FFmpeg postprocessor).
type YtdlpDownloader struct {
	ytdlpPath string
	audioDir  string

	// Injectable dependencies (defaults to OS implementations).
	cmd     commandRunner
	env     envProvider
	statter fileStatter
}

// DownloaderOption configures a YtdlpDownloader.
type DownloaderOption func(*YtdlpDownloader)

// WithCommandRunner sets the command runner.
func WithCommandRunner(r commandRunner) DownloaderOption {
	return func(d *YtdlpDownloader) { d.cmd = r }
}

// WithEnvProvider sets the environment provider.
func WithEnvProvider(e envProvider) DownloaderOption {
	return func(d *YtdlpDownloader) { d.env = e }
}

// WithFileStatter sets the file statter.
func WithFileStatter(s fileStatter) DownloaderOption {
	return func(d *YtdlpDownloader) { d.statter = s }
}

// NewYtdlpDownloader creates a downloader caching audio under audioDir.
// The yt-dlp binary is resolved from YTDLP_PATH, then the system PATH.
func NewYtdlpDownloader(audioDir string, opts ...DownloaderOption) (*YtdlpDownloader, error) {
	d := &YtdlpDownloader{
		audioDir: audioDir,
		cmd:      osCommandRunner{},
		env:      osEnvProvider{},
		statter:  osFileStatter{},
	}
	for _, opt := range opts {
		opt(d)
	}

	path, err := d.resolveBinary()
	if err != nil {
		return nil, err
	}
	d.ytdlpPath = path

	return d, nil
}

// resolveBinary finds yt-dlp using the following precedence:
//  1. YTDLP_PATH environment variable (error if set but invalid)
//  2. System PATH
func (d *YtdlpDownloader) resolveBinary() (string, error) {
	if envPath := d.env.Getenv(envYtdlpPath); envPath != "" {
		if _, err := d.statter.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but binary not found",
				ErrYtdlpNotFound, envYtdlpPath, envPath)
		}
		return envPath, nil
	}

	path, err := d.env.LookPath("yt-dlp")
	if err != nil {
		return "", fmt.Errorf("%w: install yt-dlp or set %s", ErrYtdlpNotFound, envYtdlpPath)
	}
	return path, nil
}

// AudioPath returns the deterministic cache path for a video ID.
func (d *YtdlpDownloader) AudioPath(videoID string) string {
	return filepath.Join(d.audioDir, videoID+".mp3")
}

// Fetch returns the cached audio file for videoID, downloading it first if
// necessary. Any network or transcoding failure from yt-dlp is fatal for the
// run; there is no retry at this layer.
func (d *YtdlpDownloader) Fetch(ctx context.Context, videoID string) (string, string, error) {
	audioPath := d.AudioPath(videoID)

	// Cache hit: the file is keyed by video ID, so no metadata lookup is
	// needed and the title falls back to the ID.
	if _, err := d.statter.Stat(audioPath); err == nil {
		return audioPath, videoID, nil
	}

	if err := os.MkdirAll(d.audioDir, 0750); err != nil { // #nosec G301 -- user cache dir
		return "", "", fmt.Errorf("cannot create audio directory: %w", err)
	}

	args := buildFetchArgs(videoID, d.audioDir)
	stdout, err := d.cmd.Output(ctx, d.ytdlpPath, args)
	if err != nil {
		return "", "", fmt.Errorf("%w: yt-dlp failed for %s: %v", ErrDownloadFailed, videoID, err)
	}

	title := parseTitle(string(stdout))
	if title == "" {
		title = videoID
	}

	return audioPath, title, nil
}

// buildFetchArgs returns the yt-dlp arguments for one download:
// best available audio, transcoded to 64kbps MP3, written to the
// deterministic cache path, with the display title printed to stdout.
func buildFetchArgs(videoID, audioDir string) []string {
	outputTemplate := filepath.Join(audioDir, videoID+".%(ext)s")
	return []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", audioQuality,
		"--output", outputTemplate,
		"--no-playlist",
		"--print", "title",
		"--no-simulate",
		watchURLPrefix + videoID,
	}
}

// parseTitle extracts the display title from yt-dlp stdout.
// With --print title the title is the only stdout line, but downloads of
// multi-format sources can emit it more than once; the first non-empty line
// wins.
func parseTitle(stdout string) string {
	for _, line := range strings.Split(stdout, "\n") {
		if title := strings.TrimSpace(line); title != "" {
			return title
		}
	}
	return ""
}
