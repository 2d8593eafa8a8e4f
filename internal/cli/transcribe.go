package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-ytscribe/internal/audio"
	"github.com/alnah/go-ytscribe/internal/store"
	"github.com/alnah/go-ytscribe/internal/transcribe"
)

// defaultVideoURL is transcribed when no URL argument is given.
const defaultVideoURL = "https://www.youtube.com/watch?v=OHWnPOKh_S0&pp=ygULbGV4IGZyaWRtYW4%3D"

// transcribeOptions holds the validated options for a run.
type transcribeOptions struct {
	url           string
	chunkDuration time.Duration
	provider      Provider
	language      string
	parallel      int
	audioDir      string
	transcriptDir string
}

// clampParallel constrains the parallel request count to [1, MaxRecommendedParallel].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > transcribe.MaxRecommendedParallel {
		return transcribe.MaxRecommendedParallel
	}
	return n
}

// RootCmd creates the root command.
// The env parameter provides injectable dependencies for testing.
func RootCmd(env *Env) *cobra.Command {
	var (
		chunkDuration time.Duration
		provider      string
		language      string
		parallel      int
		audioDir      string
		transcriptDir string
	)

	cmd := &cobra.Command{
		Use:   "ytscribe [URL]",
		Short: "Download a YouTube video's audio and transcribe it",
		Long: `Download the audio track of a YouTube video, split it into fixed-duration
chunks, transcribe each chunk against a hosted speech-to-text API, and print
the joined transcript.

Audio files are cached under the audio directory and final transcripts under
the transcript directory; a re-run with the same video skips whatever work is
already cached. A chunk that fails to transcribe degrades to a placeholder
segment instead of aborting the run.`,
		Example: `  ytscribe "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  ytscribe dQw4w9WgXcQ --chunk-duration 3m
  ytscribe dQw4w9WgXcQ --provider openai
  ytscribe  # transcribes the built-in default URL`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := defaultVideoURL
			if len(args) == 1 {
				url = args[0]
			}

			p, err := ParseProvider(provider)
			if err != nil {
				return err
			}
			if chunkDuration <= 0 {
				return fmt.Errorf("chunk duration must be positive: %w", ErrInvalidDuration)
			}

			opts := transcribeOptions{
				url:           url,
				chunkDuration: chunkDuration,
				provider:      p,
				language:      language,
				parallel:      clampParallel(parallel),
				audioDir:      audioDir,
				transcriptDir: transcriptDir,
			}
			return runTranscribe(cmd, env, opts)
		},
	}

	cmd.Flags().DurationVarP(&chunkDuration, "chunk-duration", "d", audio.DefaultChunkDuration,
		"Duration of each transcription chunk")
	cmd.Flags().StringVar(&provider, "provider", ProviderDeepgram,
		"Speech-to-text provider: deepgram, openai")
	cmd.Flags().StringVarP(&language, "language", "l", "en",
		"Audio language code passed to the provider")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1,
		"Max concurrent transcription requests (1-10; default 1 is strictly sequential)")
	cmd.Flags().StringVar(&audioDir, "audio-dir", "",
		"Directory for cached audio files (default: config, then downloaded_audio)")
	cmd.Flags().StringVar(&transcriptDir, "transcript-dir", "",
		"Directory for cached transcripts (default: config, then transcripts)")

	return cmd
}

// runTranscribe executes the pipeline: cache lookup, acquisition, chunked
// transcription, persistence, output.
func runTranscribe(cmd *cobra.Command, env *Env, opts transcribeOptions) error {
	ctx := cmd.Context()

	// API key is a configuration gate, checked before anything else so a
	// misconfigured environment fails before any external work.
	var apiKey string
	switch {
	case opts.provider.IsOpenAI():
		apiKey = env.Getenv(EnvOpenAIAPIKey)
		if apiKey == "" {
			return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrOpenAIKeyMissing, EnvOpenAIAPIKey)
		}
	default:
		apiKey = env.Getenv(EnvDeepgramAPIKey)
		if apiKey == "" {
			return fmt.Errorf("%w (set it with: export %s=...)", ErrAPIKeyMissing, EnvDeepgramAPIKey)
		}
	}

	videoID, err := ParseVideoID(opts.url)
	if err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}
	audioDir := cfg.AudioDir
	if opts.audioDir != "" {
		audioDir = opts.audioDir
	}
	transcriptDir := cfg.TranscriptDir
	if opts.transcriptDir != "" {
		transcriptDir = opts.transcriptDir
	}

	// === CACHE LOOKUP ===

	transcripts := env.StoreFactory.NewStore(transcriptDir)
	rec, ok, err := transcripts.Lookup(videoID)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(env.Stderr, "Using cached transcript for %s\n", videoID)
		printTranscript(env, rec.Transcript)
		return nil
	}

	// === ACQUISITION ===

	downloader, err := env.DownloaderFactory.NewDownloader(audioDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Fetching audio for %s...\n", videoID)
	audioPath, title, err := downloader.Fetch(ctx, videoID)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Audio file: %s\n", audioPath)

	// === CHUNKING ===

	ffmpegPath, err := env.FFmpegResolver.Resolve()
	if err != nil {
		return err
	}
	env.FFmpegResolver.CheckVersion(ctx, ffmpegPath)

	chunker, err := env.ChunkerFactory.NewTimeChunker(ffmpegPath, opts.chunkDuration)
	if err != nil {
		return err
	}

	chunks, err := chunker.Chunk(ctx, audioPath)
	if err != nil {
		return err
	}

	// Ensure cleanup even on error or interrupt.
	defer func() {
		if cleanupErr := audio.CleanupChunks(chunks); cleanupErr != nil {
			fmt.Fprintf(env.Stderr, "Warning: failed to cleanup chunks: %v\n", cleanupErr)
		}
	}()

	fmt.Fprintf(env.Stderr, "Chunking audio... %d chunks of up to %s\n", len(chunks), opts.chunkDuration)

	// === TRANSCRIPTION ===

	transcriber := env.TranscriberFactory.NewTranscriber(opts.provider, apiKey)
	sttOpts := transcribe.DefaultOptions()
	if opts.language != "" {
		sttOpts.Language = opts.language
	}

	fmt.Fprintln(env.Stderr, "Transcribing...")
	segments := transcribe.TranscribeChunks(ctx, chunks, transcriber, sttOpts, opts.parallel,
		func(msg string) { fmt.Fprintln(env.Stderr, msg) })
	transcript := transcribe.JoinSegments(segments)

	// === PERSIST & OUTPUT ===

	if err := transcripts.Save(store.Record{
		VideoID:    videoID,
		VideoTitle: title,
		Transcript: transcript,
	}); err != nil {
		return err
	}

	printTranscript(env, transcript)
	return nil
}

// printTranscript writes the final transcript to stdout under a fixed header.
func printTranscript(env *Env, transcript string) {
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Transcript:")
	fmt.Fprintln(env.Stdout, "-----------")
	fmt.Fprintln(env.Stdout, transcript)
}
