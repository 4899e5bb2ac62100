package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Solver   SolverConfig   `mapstructure:"solver"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SolverConfig holds search and simulation tuning parameters.
type SolverConfig struct {
	Policy     string        `mapstructure:"policy"`      // exact, jump, amortized
	Epsilon    float64       `mapstructure:"epsilon"`     // nudge past payout instants
	PhaseScale float64       `mapstructure:"phase_scale"` // payout-phase bucket granularity
	NoMemo     bool          `mapstructure:"no_memo"`     // disable the transposition table
	MaxDepth   int           `mapstructure:"max_depth"`   // upgrade-count cutoff
	Timeout    time.Duration `mapstructure:"timeout"`     // wall-clock cutoff
}

// DatabaseConfig holds run-history persistence configuration.
type DatabaseConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
	Enabled    bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional file and SOLVER_* environment
// variables, falling back to defaults for anything unset.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SOLVER")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.policy", "exact")
	v.SetDefault("solver.epsilon", 1e-3)
	v.SetDefault("solver.phase_scale", 10.0)
	v.SetDefault("solver.no_memo", false)
	v.SetDefault("solver.max_depth", 256)
	v.SetDefault("solver.timeout", "60s")

	v.SetDefault("database.sqlite_path", "data/solver_runs.db")
	v.SetDefault("database.enabled", false)

	v.SetDefault("logging.level", "info")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	switch c.Solver.Policy {
	case "exact", "jump", "amortized":
	default:
		return fmt.Errorf("solver.policy must be one of exact, jump, amortized; got %q", c.Solver.Policy)
	}
	if c.Solver.Epsilon <= 0 {
		return fmt.Errorf("solver.epsilon must be positive, got %g", c.Solver.Epsilon)
	}
	if c.Solver.PhaseScale <= 0 {
		return fmt.Errorf("solver.phase_scale must be positive, got %g", c.Solver.PhaseScale)
	}
	if c.Solver.MaxDepth <= 0 {
		return fmt.Errorf("solver.max_depth must be positive, got %d", c.Solver.MaxDepth)
	}
	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("solver.timeout must be positive, got %s", c.Solver.Timeout)
	}
	if c.Database.Enabled && c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required when database.enabled is true")
	}
	return nil
}
