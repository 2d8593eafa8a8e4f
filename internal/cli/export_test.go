package cli

// Export internal functions for testing.

// RunTranscribe exports runTranscribe for testing.
var RunTranscribe = runTranscribe

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// DefaultVideoURL exports defaultVideoURL for testing.
const DefaultVideoURL = defaultVideoURL

// TranscribeOptions exports transcribeOptions for testing.
type TranscribeOptions = transcribeOptions

// NewTranscribeOptions builds a transcribeOptions for tests.
func NewTranscribeOptions(url string, provider Provider, parallel int) transcribeOptions {
	return transcribeOptions{
		url:      url,
		provider: provider,
		language: "en",
		parallel: parallel,
	}
}
