package cmd

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Global flags
	debug   bool
	logFile string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "pristine",
	Short: "Reclaim disk space on GitHub-hosted Ubuntu runners",
	Long: `Pristine - reclaim disk space on GitHub-hosted Ubuntu runners.

Deletes pre-installed software (Android SDK, browsers, language runtimes,
cloud CLIs) the current job does not need, while leaving the dependencies
of common setup-* actions intact. Deletions are irreversible and meant for
throwaway runner virtual machines only.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs on stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write detailed logs to this file (rotated)")

	// Register all subcommands
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

// debugLogger builds the detail logger from the global flags. With
// --log-file the log goes to a rotated file; with --debug it goes to
// stderr; otherwise it is discarded.
func debugLogger() *log.Logger {
	var w io.Writer
	switch {
	case logFile != "":
		w = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
	case debug:
		w = os.Stderr
	default:
		w = io.Discard
	}
	return log.New(w, "", log.LstdFlags)
}
