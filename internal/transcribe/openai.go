package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-ytscribe/internal/apierr"
)

// audioTranscriber is the slice of *openai.Client we use.
// Allows injecting mocks in tests.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Transcriber      = (*OpenAITranscriber)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAITranscriber transcribes audio buffers using OpenAI's transcription
// API (whisper-1). It is the alternative to the default Deepgram provider.
//
// OpenAI's API has no equivalent of the smart_format/paragraphs/diarize
// flags; those options are ignored here and only model and language apply.
type OpenAITranscriber struct {
	client     audioTranscriber
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// OpenAIOption configures an OpenAITranscriber.
type OpenAIOption func(*OpenAITranscriber)

// WithOpenAIMaxRetries sets the maximum number of retry attempts.
func WithOpenAIMaxRetries(n int) OpenAIOption {
	return func(t *OpenAITranscriber) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithOpenAIRetryDelays sets the base and max delays for exponential backoff.
func WithOpenAIRetryDelays(base, max time.Duration) OpenAIOption {
	return func(t *OpenAITranscriber) {
		if base > 0 {
			t.baseDelay = base
		}
		if max > 0 {
			t.maxDelay = max
		}
	}
}

// NewOpenAITranscriber creates an OpenAITranscriber.
// The client is injected to enable testing with mocks.
func NewOpenAITranscriber(client audioTranscriber, opts ...OpenAIOption) *OpenAITranscriber {
	t := &OpenAITranscriber{
		client:     client,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe submits the audio buffer to OpenAI's transcription API.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string, opts Options) (string, error) {
	cfg := apierr.RetryConfig{
		MaxRetries: t.maxRetries,
		BaseDelay:  t.baseDelay,
		MaxDelay:   t.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		// Fresh reader per attempt: a retried upload must restart from the
		// beginning of the buffer.
		req := openai.AudioRequest{
			Model:    openai.Whisper1,
			Reader:   bytes.NewReader(audio),
			FilePath: fileNameForMime(mimeType),
			Format:   openai.AudioResponseFormatJSON,
			Language: opts.Language,
		}
		resp, err := t.client.CreateTranscription(ctx, req)
		if err != nil {
			return "", classifyOpenAIError(err)
		}
		return resp.Text, nil
	}, apierr.IsRetryable)
}

// fileNameForMime derives the filename hint go-openai sends with the
// multipart upload; the API infers the container format from its extension.
func fileNameForMime(mimeType string) string {
	switch mimeType {
	case MimeTypeMP3, "audio/mpeg":
		return "chunk.mp3"
	case "audio/wav":
		return "chunk.wav"
	case "audio/ogg":
		return "chunk.ogg"
	default:
		return "chunk.mp3"
	}
}

// classifyOpenAIError maps OpenAI API errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout,
			http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
