package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/foodgram/foodgram/foodgram"
	"github.com/foodgram/foodgram/foodgram/logger"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "foodgram",
	Short:         "Foodgram recipe sharing backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config")
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the config file and installs the process logger.
func loadConfig(service string) (*foodgram.Config, error) {
	cfg, err := foodgram.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(service, cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource))
	return cfg, nil
}
