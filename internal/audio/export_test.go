package audio

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// Partition exports partition for testing.
var Partition = partition

// ParseDurationFromFFmpegOutput exports parseDurationFromFFmpegOutput for testing.
var ParseDurationFromFFmpegOutput = parseDurationFromFFmpegOutput

// ParseTimeComponents exports parseTimeComponents for testing.
var ParseTimeComponents = parseTimeComponents

// FormatFFmpegTime exports formatFFmpegTime for testing.
var FormatFFmpegTime = formatFFmpegTime

// ChunkEncodingArgs exports chunkEncodingArgs for testing.
var ChunkEncodingArgs = chunkEncodingArgs

// --- Chunker dependency injection exports ---

// CommandRunner exports commandRunner interface for testing.
type CommandRunner = commandRunner

// TempDirCreator exports tempDirCreator interface for testing.
type TempDirCreator = tempDirCreator

// FileRemover exports fileRemover interface for testing.
type FileRemover = fileRemover
