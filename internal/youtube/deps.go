package youtube

import (
	"context"
	"os"
	"os/exec"
)

// commandRunner executes external commands and returns their stdout.
// Stderr is left attached to the process so yt-dlp progress output reaches
// the terminal.
type commandRunner interface {
	Output(ctx context.Context, name string, args []string) ([]byte, error)
}

// envProvider abstracts environment lookups for testing.
type envProvider interface {
	Getenv(key string) string
	LookPath(file string) (string, error)
}

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// --- Default implementations using real OS functions ---

// osCommandRunner implements commandRunner using exec.CommandContext.
type osCommandRunner struct{}

func (osCommandRunner) Output(ctx context.Context, name string, args []string) ([]byte, error) {
	// #nosec G204 -- name and args are controlled by the downloader, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Output()
}

// osEnvProvider implements envProvider using the os and exec packages.
type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string             { return os.Getenv(key) }
func (osEnvProvider) LookPath(file string) (string, error) { return exec.LookPath(file) }

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}
