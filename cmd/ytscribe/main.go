package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/alnah/go-ytscribe/internal/cli"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	rootCmd := cli.RootCmd(env)
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	rootCmd.SilenceErrors = true

	// Every failure funnels here and is reported with the Exception: prefix.
	// The process exits 0 regardless: the contract is "never crash, always
	// print something", with error kinds distinguished internally by
	// sentinel errors rather than by exit code.
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Exception: %v\n", err)
	}
}
