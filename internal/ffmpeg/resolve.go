// Package ffmpeg locates the FFmpeg binary used for chunk extraction.
package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Environment variable for a custom ffmpeg path.
const envFFmpegPath = "FFMPEG_PATH"

// minMajorVersion is the minimum supported ffmpeg version.
// Older versions may lack codec support for the MP3 chunk re-encode.
const minMajorVersion = 4

// envProvider abstracts environment lookups for testing.
type envProvider interface {
	Getenv(key string) string
	LookPath(file string) (string, error)
}

// commandRunner executes external commands and returns their combined output.
type commandRunner interface {
	CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error)
}

// osEnvProvider implements envProvider using the os and exec packages.
type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string            { return os.Getenv(key) }
func (osEnvProvider) LookPath(file string) (string, error) { return exec.LookPath(file) }

// osCommandRunner implements commandRunner using exec.CommandContext.
type osCommandRunner struct{}

func (osCommandRunner) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	// #nosec G204 -- name and args are controlled by the resolver, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Resolver finds FFmpeg and checks its version.
type Resolver struct {
	env    envProvider
	cmd    commandRunner
	stderr io.Writer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnvProvider sets the environment provider implementation.
func WithEnvProvider(e envProvider) ResolverOption {
	return func(r *Resolver) { r.env = e }
}

// WithCommandRunner sets the command runner implementation.
func WithCommandRunner(c commandRunner) ResolverOption {
	return func(r *Resolver) { r.cmd = c }
}

// WithStderr sets the writer for warning messages.
func WithStderr(w io.Writer) ResolverOption {
	return func(r *Resolver) { r.stderr = w }
}

// NewResolver creates a Resolver with the given options.
// Uses production defaults if no options are provided.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		env:    osEnvProvider{},
		cmd:    osCommandRunner{},
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds ffmpeg using the following precedence:
//  1. FFMPEG_PATH environment variable (error if set but invalid)
//  2. System PATH
func (r *Resolver) Resolve() (string, error) {
	if envPath := r.env.Getenv(envFFmpegPath); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but binary not found",
				ErrNotFound, envFFmpegPath, envPath)
		}
		return envPath, nil
	}

	path, err := r.env.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: install ffmpeg or set %s", ErrNotFound, envFFmpegPath)
	}
	return path, nil
}

// CheckVersion verifies that ffmpeg meets the minimum version requirement.
// Prints a warning to stderr if the version is below minimum but never fails:
// an unparseable version string is treated as acceptable.
// Returns true if the version was successfully parsed.
func (r *Resolver) CheckVersion(ctx context.Context, ffmpegPath string) bool {
	output, err := r.cmd.CombinedOutput(ctx, ffmpegPath, []string{"-version"})
	if err != nil && len(output) == 0 {
		return false
	}

	major, ok := parseMajorVersion(string(output))
	if !ok {
		return false
	}

	if major < minMajorVersion {
		fmt.Fprintf(r.stderr, "Warning: ffmpeg version %d detected, version %d+ recommended\n",
			major, minMajorVersion)
	}
	return true
}

// parseMajorVersion extracts the major version from ffmpeg -version output.
// First line looks like "ffmpeg version 6.1.1 Copyright..." or "ffmpeg version n6.1.1...".
func parseMajorVersion(output string) (int, bool) {
	line, _, _ := strings.Cut(output, "\n")
	if line == "" {
		return 0, false
	}

	var major int
	if _, err := fmt.Sscanf(line, "ffmpeg version %d", &major); err == nil {
		return major, true
	}
	if _, err := fmt.Sscanf(line, "ffmpeg version n%d", &major); err == nil {
		return major, true
	}
	return 0, false
}
