package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/tank-cascade/internal/calculator"
	"github.com/eugenenazirov/tank-cascade/internal/logging"
	"github.com/eugenenazirov/tank-cascade/internal/validation"
)

const (
	defaultPort            = "8080"
	defaultRateLimitRPS    = 25.0
	defaultRateLimitBurst  = 50
	defaultLogLevel        = "info"
	defaultBatchMaxSystems = 64
	defaultBatchWorkers    = 4
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
	LogLevel             string
	BatchMaxSystems      int
	BatchWorkers         int
	Systems              map[string]calculator.TankSystem
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string                `yaml:"port"`
	ShutdownGracePeriod  string                `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string                `yaml:"read_header_timeout"`
	WriteTimeout         string                `yaml:"write_timeout"`
	IdleTimeout          string                `yaml:"idle_timeout"`
	EnableRequestLogging *bool                 `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit         `yaml:"rate_limit"`
	LogLevel             string                `yaml:"log_level"`
	Batch                yamlBatch             `yaml:"batch"`
	Systems              map[string]yamlSystem `yaml:"systems"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

type yamlBatch struct {
	MaxSystems int `yaml:"max_systems"`
	Workers    int `yaml:"workers"`
}

// yamlSystem is a tank system seeded from the configuration file.
type yamlSystem struct {
	TankCount  int     `yaml:"tank_count"`
	InflowRate int64   `yaml:"inflow_rate"`
	Capacities []int64 `yaml:"capacities"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
	LogLevel       *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Environment variables sit below the YAML file, so apply them first.
	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		LogLevel:             defaultLogLevel,
		BatchMaxSystems:      defaultBatchMaxSystems,
		BatchWorkers:         defaultBatchWorkers,
		Systems:              map[string]calculator.TankSystem{},
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		value, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = value
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.Batch.MaxSystems != 0 {
		cfg.BatchMaxSystems = yamlCfg.Batch.MaxSystems
	}

	if yamlCfg.Batch.Workers != 0 {
		cfg.BatchWorkers = yamlCfg.Batch.Workers
	}

	for name, sys := range yamlCfg.Systems {
		cfg.Systems[name] = calculator.TankSystem{
			TankCount:  sys.TankCount,
			InflowRate: sys.InflowRate,
			Capacities: sys.Capacities,
		}
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	if maxSystems := strings.TrimSpace(os.Getenv("BATCH_MAX_SYSTEMS")); maxSystems != "" {
		if value, err := strconv.Atoi(maxSystems); err == nil && value > 0 {
			cfg.BatchMaxSystems = value
		}
	}

	if workers := strings.TrimSpace(os.Getenv("BATCH_WORKERS")); workers != "" {
		if value, err := strconv.Atoi(workers); err == nil && value > 0 {
			cfg.BatchWorkers = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(*overrides.LogLevel)
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.BatchMaxSystems <= 0 {
		return fmt.Errorf("batch max systems must be positive, got %d", cfg.BatchMaxSystems)
	}
	if cfg.BatchWorkers <= 0 {
		return fmt.Errorf("batch workers must be positive, got %d", cfg.BatchWorkers)
	}

	names := make([]string, 0, len(cfg.Systems))
	for name := range cfg.Systems {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := validation.Validate(cfg.Systems[name]); err != nil {
			return fmt.Errorf("system %q: %w", name, err)
		}
	}
	return nil
}
