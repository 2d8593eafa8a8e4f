package transcribe

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ListenQuery exports listenQuery for testing.
var ListenQuery = listenQuery

// ParseListenResponse exports parseListenResponse for testing.
var ParseListenResponse = parseListenResponse

// ClassifyHTTPError exports classifyHTTPError for testing.
var ClassifyHTTPError = classifyHTTPError

// ClassifyOpenAIError exports classifyOpenAIError for testing.
var ClassifyOpenAIError = classifyOpenAIError

// FileNameForMime exports fileNameForMime for testing.
var FileNameForMime = fileNameForMime
