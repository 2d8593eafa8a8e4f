package cli_test

// Hand-rolled mocks for the Env factory seams. Each mock records calls under
// a mutex so tests can assert on interaction counts.

import (
	"context"
	"sync"
	"time"

	"github.com/alnah/go-ytscribe/internal/audio"
	"github.com/alnah/go-ytscribe/internal/cli"
	"github.com/alnah/go-ytscribe/internal/config"
	"github.com/alnah/go-ytscribe/internal/store"
	"github.com/alnah/go-ytscribe/internal/transcribe"
	"github.com/alnah/go-ytscribe/internal/youtube"
)

// Compile-time interface verification.
var (
	_ cli.ConfigLoader       = (*mockConfigLoader)(nil)
	_ cli.FFmpegResolver     = (*mockFFmpegResolver)(nil)
	_ cli.DownloaderFactory  = (*mockDownloaderFactory)(nil)
	_ cli.ChunkerFactory     = (*mockChunkerFactory)(nil)
	_ cli.TranscriberFactory = (*mockTranscriberFactory)(nil)
	_ cli.StoreFactory       = (*mockStoreFactory)(nil)
	_ cli.TranscriptStore    = (*mockStore)(nil)
	_ youtube.Downloader     = (*mockDownloader)(nil)
	_ audio.Chunker          = (*mockChunker)(nil)
	_ transcribe.Transcriber = (*mockTranscriber)(nil)
)

// --- config ---

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{AudioDir: "downloaded_audio", TranscriptDir: "transcripts"}, nil
}

// --- ffmpeg ---

type mockFFmpegResolver struct {
	ResolveFunc func() (string, error)

	mu           sync.Mutex
	resolveCalls int
}

func (m *mockFFmpegResolver) Resolve() (string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc()
	}
	return "/usr/bin/ffmpeg", nil
}

func (m *mockFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) bool {
	return true
}

// --- downloader ---

type mockDownloader struct {
	FetchFunc func(ctx context.Context, videoID string) (string, string, error)
}

func (m *mockDownloader) Fetch(ctx context.Context, videoID string) (string, string, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, videoID)
	}
	return "/audio/" + videoID + ".mp3", "Mock Title", nil
}

type mockDownloaderFactory struct {
	downloader *mockDownloader
	err        error

	mu       sync.Mutex
	calls    int
	audioDir string
}

func (m *mockDownloaderFactory) NewDownloader(audioDir string) (youtube.Downloader, error) {
	m.mu.Lock()
	m.calls++
	m.audioDir = audioDir
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.downloader == nil {
		return &mockDownloader{}, nil
	}
	return m.downloader, nil
}

func (m *mockDownloaderFactory) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- chunker ---

type mockChunker struct {
	ChunkFunc func(ctx context.Context, audioPath string) ([]audio.Chunk, error)
}

func (m *mockChunker) Chunk(ctx context.Context, audioPath string) ([]audio.Chunk, error) {
	if m.ChunkFunc != nil {
		return m.ChunkFunc(ctx, audioPath)
	}
	return nil, nil
}

type mockChunkerFactory struct {
	chunker *mockChunker

	mu            sync.Mutex
	calls         int
	ffmpegPath    string
	chunkDuration time.Duration
}

func (m *mockChunkerFactory) NewTimeChunker(ffmpegPath string, chunkDuration time.Duration) (audio.Chunker, error) {
	m.mu.Lock()
	m.calls++
	m.ffmpegPath = ffmpegPath
	m.chunkDuration = chunkDuration
	m.mu.Unlock()

	if m.chunker == nil {
		return &mockChunker{}, nil
	}
	return m.chunker, nil
}

// --- transcriber ---

type mockTranscriber struct {
	TranscribeFunc func(ctx context.Context, data []byte, mimeType string, opts transcribe.Options) (string, error)
}

func (m *mockTranscriber) Transcribe(ctx context.Context, data []byte, mimeType string, opts transcribe.Options) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, data, mimeType, opts)
	}
	return string(data), nil
}

type mockTranscriberFactory struct {
	transcriber *mockTranscriber

	mu       sync.Mutex
	calls    int
	provider cli.Provider
	apiKey   string
}

func (m *mockTranscriberFactory) NewTranscriber(p cli.Provider, apiKey string) transcribe.Transcriber {
	m.mu.Lock()
	m.calls++
	m.provider = p
	m.apiKey = apiKey
	m.mu.Unlock()

	if m.transcriber == nil {
		return &mockTranscriber{}
	}
	return m.transcriber
}

func (m *mockTranscriberFactory) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockTranscriberFactory) APIKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiKey
}

// --- store ---

type mockStore struct {
	LookupFunc func(videoID string) (store.Record, bool, error)
	SaveFunc   func(rec store.Record) error

	mu    sync.Mutex
	saved []store.Record
}

func (m *mockStore) Lookup(videoID string) (store.Record, bool, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(videoID)
	}
	return store.Record{}, false, nil
}

func (m *mockStore) Save(rec store.Record) error {
	m.mu.Lock()
	m.saved = append(m.saved, rec)
	m.mu.Unlock()

	if m.SaveFunc != nil {
		return m.SaveFunc(rec)
	}
	return nil
}

func (m *mockStore) Saved() []store.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}

type mockStoreFactory struct {
	store *mockStore

	mu            sync.Mutex
	transcriptDir string
}

func (m *mockStoreFactory) NewStore(transcriptDir string) cli.TranscriptStore {
	m.mu.Lock()
	m.transcriptDir = transcriptDir
	m.mu.Unlock()

	if m.store == nil {
		return &mockStore{}
	}
	return m.store
}
