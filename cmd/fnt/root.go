package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/fnt/internal/diag"
)

var (
	logLevel string
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fnt",
	Short: "Inspect the fnt caller-driven numerical methods catalogue",
	Long: `fnt exposes the builtin method catalogue: what methods are registered
and what version of the toolbox is running. Driving a method against an
objective function is done through the driver package from Go code, not
from this command line.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		logger = slog.New(handler)
		slog.SetDefault(logger)

		diag.SetDefault(levelFromFlag(logLevel))
	},
}

func levelFromFlag(flag string) diag.Level {
	switch flag {
	case "debug":
		return diag.LevelDebug
	case "info":
		return diag.LevelInfo
	case "warn":
		return diag.LevelWarn
	case "error":
		return diag.LevelError
	default:
		return diag.LevelWarn
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}
