// Package config loads cache directory settings from the user config file
// and environment variables.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config keys.
const (
	KeyAudioDir      = "audio-dir"
	KeyTranscriptDir = "transcript-dir"
)

// Environment variable fallbacks.
const (
	EnvAudioDir      = "YTSCRIBE_AUDIO_DIR"
	EnvTranscriptDir = "YTSCRIBE_TRANSCRIPT_DIR"
)

// Default cache layout: both directories are created relative to the
// working directory.
const (
	DefaultAudioDir      = "downloaded_audio"
	DefaultTranscriptDir = "transcripts"
)

// Config holds user configuration loaded from ~/.config/ytscribe/config.
type Config struct {
	AudioDir      string
	TranscriptDir string
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/ytscribe.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ytscribe"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ytscribe"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variables, then defaults.
// A missing config file is not an error.
func Load() (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	if data, err := parseFile(p); err == nil {
		cfg.AudioDir = data[KeyAudioDir]
		cfg.TranscriptDir = data[KeyTranscriptDir]
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if cfg.AudioDir == "" {
		cfg.AudioDir = os.Getenv(EnvAudioDir)
	}
	if cfg.TranscriptDir == "" {
		cfg.TranscriptDir = os.Getenv(EnvTranscriptDir)
	}

	if cfg.AudioDir == "" {
		cfg.AudioDir = DefaultAudioDir
	}
	if cfg.TranscriptDir == "" {
		cfg.TranscriptDir = DefaultTranscriptDir
	}

	cfg.AudioDir = ExpandPath(cfg.AudioDir)
	cfg.TranscriptDir = ExpandPath(cfg.TranscriptDir)

	return cfg, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		data[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}
