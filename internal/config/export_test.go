package config

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ParseFile exports parseFile for testing.
var ParseFile = parseFile
