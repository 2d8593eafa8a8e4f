package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-ytscribe/internal/apierr"
)

// deepgramListenURL is the Deepgram pre-recorded transcription endpoint.
const deepgramListenURL = "https://api.deepgram.com/v1/listen"

// Per-request timeouts: the connect timeout is deliberately shorter than the
// total request timeout so an unreachable host fails fast while a slow
// transcription still gets the full budget.
const (
	deepgramConnectTimeout = 10 * time.Second
	deepgramTotalTimeout   = 60 * time.Second
)

// Default retry configuration for transient API failures.
const (
	defaultMaxRetries = 2
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 10 * time.Second
)

// defaultDeepgramClient enforces the connect/total timeout split.
var defaultDeepgramClient = &http.Client{
	Timeout: deepgramTotalTimeout,
	Transport: &http.Transport{
		DialContext:         (&net.Dialer{Timeout: deepgramConnectTimeout}).DialContext,
		TLSHandshakeTimeout: deepgramConnectTimeout,
	},
}

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface compliance check.
var _ Transcriber = (*DeepgramTranscriber)(nil)

// DeepgramTranscriber transcribes audio buffers using Deepgram's
// pre-recorded API. Transient failures (rate limits, timeouts, 5xx) are
// retried with exponential backoff before the error is reported.
type DeepgramTranscriber struct {
	apiKey     string
	httpClient httpDoer
	endpoint   string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// DeepgramOption configures a DeepgramTranscriber.
type DeepgramOption func(*DeepgramTranscriber)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(c httpDoer) DeepgramOption {
	return func(t *DeepgramTranscriber) { t.httpClient = c }
}

// WithEndpoint overrides the API endpoint (for testing).
func WithEndpoint(u string) DeepgramOption {
	return func(t *DeepgramTranscriber) { t.endpoint = u }
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) DeepgramOption {
	return func(t *DeepgramTranscriber) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) DeepgramOption {
	return func(t *DeepgramTranscriber) {
		if base > 0 {
			t.baseDelay = base
		}
		if max > 0 {
			t.maxDelay = max
		}
	}
}

// NewDeepgramTranscriber creates a DeepgramTranscriber.
func NewDeepgramTranscriber(apiKey string, opts ...DeepgramOption) *DeepgramTranscriber {
	t := &DeepgramTranscriber{
		apiKey:     apiKey,
		httpClient: defaultDeepgramClient,
		endpoint:   deepgramListenURL,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe submits the audio buffer and returns the transcript of the
// first alternative of the first channel.
func (t *DeepgramTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string, opts Options) (string, error) {
	cfg := apierr.RetryConfig{
		MaxRetries: t.maxRetries,
		BaseDelay:  t.baseDelay,
		MaxDelay:   t.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		return t.transcribeOnce(ctx, audio, mimeType, opts)
	}, apierr.IsRetryable)
}

// transcribeOnce performs a single API request.
func (t *DeepgramTranscriber) transcribeOnce(ctx context.Context, audio []byte, mimeType string, opts Options) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.endpoint+"?"+listenQuery(opts), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+t.apiKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(resp.StatusCode, body)
	}

	return parseListenResponse(body)
}

// listenQuery encodes the transcription options as query parameters.
func listenQuery(opts Options) string {
	q := url.Values{}
	if opts.Model != "" {
		q.Set("model", opts.Model)
	}
	if opts.Language != "" {
		q.Set("language", opts.Language)
	}
	q.Set("smart_format", strconv.FormatBool(opts.SmartFormat))
	q.Set("paragraphs", strconv.FormatBool(opts.Paragraphs))
	q.Set("diarize", strconv.FormatBool(opts.Diarize))
	return q.Encode()
}

// listenResponse is the subset of the Deepgram response envelope we use.
type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// parseListenResponse extracts the transcript of the first alternative of
// the first channel.
func parseListenResponse(body []byte) (string, error) {
	var resp listenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", apierr.ErrMalformedResponse, err)
	}
	if len(resp.Results.Channels) == 0 || len(resp.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("%w: no transcript in response", apierr.ErrMalformedResponse)
	}
	return resp.Results.Channels[0].Alternatives[0].Transcript, nil
}

// listenErrorResponse is the Deepgram error envelope.
type listenErrorResponse struct {
	ErrCode string `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// classifyHTTPError maps an HTTP error response to apierr sentinels.
func classifyHTTPError(statusCode int, body []byte) error {
	var errResp listenErrorResponse
	msg := ""
	if err := json.Unmarshal(body, &errResp); err == nil {
		msg = errResp.ErrMsg
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		// Distinguish a temporary rate limit from exhausted credits: the
		// latter requires user action and must not be retried.
		if strings.Contains(msg, "quota") || strings.Contains(msg, "credit") {
			return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", msg, apierr.ErrRateLimit)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, apierr.ErrAuthFailed)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, apierr.ErrTimeout)
	case http.StatusBadRequest, http.StatusNotFound, http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", msg, apierr.ErrBadRequest)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", msg, apierr.ErrTimeout) // Retryable server error
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, msg)
	}
}

// classifyTransportError maps transport-level failures to apierr sentinels.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%v: %w", err, apierr.ErrTimeout)
	}
	return err
}
