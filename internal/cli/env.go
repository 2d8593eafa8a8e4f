package cli

import (
	"context"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-ytscribe/internal/audio"
	"github.com/alnah/go-ytscribe/internal/config"
	"github.com/alnah/go-ytscribe/internal/ffmpeg"
	"github.com/alnah/go-ytscribe/internal/store"
	"github.com/alnah/go-ytscribe/internal/transcribe"
	"github.com/alnah/go-ytscribe/internal/youtube"
)

// Environment variable names for provider API keys.
const (
	EnvDeepgramAPIKey = "DEEPGRAM_API_KEY"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
)

// Env holds injectable dependencies for the transcribe command.
// This is the central injection point for testing the command in isolation.
//
// All fields have production defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader       ConfigLoader
	FFmpegResolver     FFmpegResolver
	DownloaderFactory  DownloaderFactory
	ChunkerFactory     ChunkerFactory
	TranscriberFactory TranscriberFactory
	StoreFactory       StoreFactory
}

// ConfigLoader loads cache directory configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// FFmpegResolver resolves the path to the FFmpeg binary.
type FFmpegResolver interface {
	Resolve() (string, error)
	CheckVersion(ctx context.Context, ffmpegPath string) bool
}

// DownloaderFactory creates audio downloaders.
type DownloaderFactory interface {
	NewDownloader(audioDir string) (youtube.Downloader, error)
}

// ChunkerFactory creates audio chunkers.
type ChunkerFactory interface {
	NewTimeChunker(ffmpegPath string, chunkDuration time.Duration) (audio.Chunker, error)
}

// TranscriberFactory creates transcribers for the given provider.
type TranscriberFactory interface {
	NewTranscriber(p Provider, apiKey string) transcribe.Transcriber
}

// TranscriptStore reads and writes cached transcript records.
type TranscriptStore interface {
	Lookup(videoID string) (store.Record, bool, error)
	Save(rec store.Record) error
}

// StoreFactory creates transcript stores.
type StoreFactory interface {
	NewStore(transcriptDir string) TranscriptStore
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) { e.Stdout = w }
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) { e.Stderr = w }
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) { e.Getenv = fn }
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) { e.ConfigLoader = l }
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) { e.FFmpegResolver = r }
}

// WithDownloaderFactory sets the downloader factory.
func WithDownloaderFactory(f DownloaderFactory) EnvOption {
	return func(e *Env) { e.DownloaderFactory = f }
}

// WithChunkerFactory sets the chunker factory.
func WithChunkerFactory(f ChunkerFactory) EnvOption {
	return func(e *Env) { e.ChunkerFactory = f }
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) { e.TranscriberFactory = f }
}

// WithStoreFactory sets the store factory.
func WithStoreFactory(f StoreFactory) EnvOption {
	return func(e *Env) { e.StoreFactory = f }
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		ConfigLoader:       &defaultConfigLoader{},
		FFmpegResolver:     &defaultFFmpegResolver{},
		DownloaderFactory:  &defaultDownloaderFactory{},
		ChunkerFactory:     &defaultChunkerFactory{},
		TranscriberFactory: &defaultTranscriberFactory{},
		StoreFactory:       &defaultStoreFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve() (string, error) {
	return ffmpeg.NewResolver().Resolve()
}

func (defaultFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) bool {
	return ffmpeg.NewResolver().CheckVersion(ctx, ffmpegPath)
}

// defaultDownloaderFactory implements DownloaderFactory using yt-dlp.
type defaultDownloaderFactory struct{}

func (defaultDownloaderFactory) NewDownloader(audioDir string) (youtube.Downloader, error) {
	return youtube.NewYtdlpDownloader(audioDir)
}

// defaultChunkerFactory implements ChunkerFactory using the audio package.
type defaultChunkerFactory struct{}

func (defaultChunkerFactory) NewTimeChunker(ffmpegPath string, chunkDuration time.Duration) (audio.Chunker, error) {
	return audio.NewTimeChunker(ffmpegPath, chunkDuration)
}

// defaultTranscriberFactory implements TranscriberFactory for both providers.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(p Provider, apiKey string) transcribe.Transcriber {
	if p.IsOpenAI() {
		return transcribe.NewOpenAITranscriber(openai.NewClient(apiKey))
	}
	return transcribe.NewDeepgramTranscriber(apiKey)
}

// defaultStoreFactory implements StoreFactory using the store package.
type defaultStoreFactory struct{}

func (defaultStoreFactory) NewStore(transcriptDir string) TranscriptStore {
	return store.New(transcriptDir)
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ FFmpegResolver     = (*defaultFFmpegResolver)(nil)
	_ DownloaderFactory  = (*defaultDownloaderFactory)(nil)
	_ ChunkerFactory     = (*defaultChunkerFactory)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
	_ StoreFactory       = (*defaultStoreFactory)(nil)
)
