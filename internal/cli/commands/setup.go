package commands

import (
	"log/slog"
	"os"

	"github.com/barcelona-housing/barrios/internal/cli/config"
	"github.com/barcelona-housing/barrios/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext assembles the config, logger, and renderer for a command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables. The fallback keeps commands usable when invoked
// outside the root command (tests, scripting).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	database := getEnvOrDefault("BARRIOS_DATABASE", config.DefaultDatabasePath)
	outputFormat := os.Getenv("BARRIOS_OUTPUT")
	verbose := os.Getenv("BARRIOS_VERBOSE") == "true"

	return &config.Config{
		DatabasePath: database,
		Verbose:      verbose,
		OutputFormat: outputFormat,
		OpenData:     &config.OpenDataConfig{BaseURL: config.DefaultPortalURL},
		Tracker:      &config.TrackerConfig{BaseURL: config.DefaultTrackerURL},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
