package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/mediagrab/internal/config"
)

// AppName is the binary and log source name
const AppName = "mediagrab"

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           AppName,
	Short:         "Local web service that downloads YouTube, TikTok and Instagram videos",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", AppName, version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from settings
func newLogger(settings *config.Settings) *slog.Logger {
	opts := &slog.HandlerOptions{Level: settings.GetLogLevel()}

	var handler slog.Handler
	if settings.GetLogFormat() == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler).With("app", AppName, "version", version)
}
