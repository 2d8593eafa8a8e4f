package youtube

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// BuildFetchArgs exports buildFetchArgs for testing.
var BuildFetchArgs = buildFetchArgs

// ParseTitle exports parseTitle for testing.
var ParseTitle = parseTitle

// EnvYtdlpPath exports envYtdlpPath for testing.
const EnvYtdlpPath = envYtdlpPath

// CommandRunner exports commandRunner interface for testing.
type CommandRunner = commandRunner

// EnvProvider exports envProvider interface for testing.
type EnvProvider = envProvider

// FileStatter exports fileStatter interface for testing.
type FileStatter = fileStatter
