// Package cli holds the start-up steps shared by the tank-cascade commands:
// the common flags, configuration loading and logger construction.
package cli

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/tank-cascade/internal/config"
	"github.com/eugenenazirov/tank-cascade/internal/logging"
)

// Flags are the flags every command accepts.
type Flags struct {
	ConfigFile *string
	LogLevel   *string
}

// RegisterFlags adds --config and --log-level to app. An empty defaultLevel
// leaves the level to the configuration sources.
func RegisterFlags(app *kingpin.Application, defaultLevel string) *Flags {
	level := app.Flag("log-level", "Log level (debug, info, warn, error)")
	if defaultLevel != "" {
		level = level.Default(defaultLevel)
	}
	return &Flags{
		ConfigFile: app.Flag("config", "Path to YAML configuration file").String(),
		LogLevel:   level.String(),
	}
}

// Bootstrap resolves the configuration and builds the logger. Command specific
// overrides may be passed in; the shared flags are merged into them.
func Bootstrap(flags *Flags, overrides *config.CLIOverrides) (config.Config, *zap.Logger, error) {
	if overrides == nil {
		overrides = &config.CLIOverrides{}
	}
	if flags != nil {
		if flags.ConfigFile != nil {
			overrides.ConfigFile = *flags.ConfigFile
		}
		if flags.LogLevel != nil && *flags.LogLevel != "" {
			overrides.LogLevel = flags.LogLevel
		}
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, logger, nil
}
