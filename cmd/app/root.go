package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greensteps/config"
	"greensteps/internal/logger"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "greensteps",
	Short: "Weekly recycling and hydration habit tracker",
	Long: `GreenSteps records one recycling/hydration log per week, awards badges
for streaks and goals, and serves tips and a dashboard over a JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding app.env")
}

// loadConfig reads configuration and sets up logging from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return cfg, err
	}
	return cfg, nil
}
