package ffmpeg

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ParseMajorVersion exports parseMajorVersion for testing.
var ParseMajorVersion = parseMajorVersion

// EnvFFmpegPath exports envFFmpegPath for testing.
const EnvFFmpegPath = envFFmpegPath

// EnvProvider exports envProvider interface for testing.
type EnvProvider = envProvider

// CommandRunner exports commandRunner interface for testing.
type CommandRunner = commandRunner
