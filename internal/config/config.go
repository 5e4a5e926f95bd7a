package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings for shiftlog.
type Config struct {
	// DB is a SQLite file path, ":memory:", or a postgres:// DSN.
	DB      string        `yaml:"db"`
	Logging LoggingConfig `yaml:"logging"`
	Solver  SolverConfig  `yaml:"solver"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
	// UseCases logs one line per service use case.
	UseCases bool `yaml:"use_cases"`
	// AuditFile, when set, receives a plain-text line per use case,
	// independent of Level.
	AuditFile string `yaml:"audit_file"`
}

// SolverConfig tunes the factor solver and its orchestration timeout.
type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	TimeoutMs     int     `yaml:"timeout_ms"`
}

// Timeout returns TimeoutMs as a duration.
func (s SolverConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validFormats = map[string]bool{"console": true, "json": true}

// DefaultDBPath returns ~/.shiftlog/shiftlog.db, or a relative path when
// the home directory cannot be determined.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".shiftlog", "shiftlog.db")
	}
	return filepath.Join(home, ".shiftlog", "shiftlog.db")
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(filepath.Dir(DefaultDBPath()), "config.yaml")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DB: DefaultDBPath(),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Solver: SolverConfig{
			MaxIterations: 500,
			Tolerance:     1e-9,
			TimeoutMs:     300,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides reads SHIFTLOG_* variables. Values that fail to parse
// are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHIFTLOG_DB"); v != "" {
		c.DB = v
	}
	if v := os.Getenv("SHIFTLOG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SHIFTLOG_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SHIFTLOG_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.UseCases = b
		}
	}
	if v := os.Getenv("SHIFTLOG_AUDIT_FILE"); v != "" {
		c.Logging.AuditFile = v
	}
	if v := os.Getenv("SHIFTLOG_SOLVER_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Solver.MaxIterations = n
		}
	}
	if v := os.Getenv("SHIFTLOG_SOLVER_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.Solver.Tolerance = f
		}
	}
	if v := os.Getenv("SHIFTLOG_SOLVER_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Solver.TimeoutMs = n
		}
	}
}

// Validate checks the configuration for values the program cannot run with.
func (c *Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("db is required")
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level %q (expected debug, info, warn or error)", c.Logging.Level)
	}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging.format %q (expected console or json)", c.Logging.Format)
	}
	if c.Solver.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations must be positive (got %d)", c.Solver.MaxIterations)
	}
	if c.Solver.Tolerance <= 0 {
		return fmt.Errorf("solver.tolerance must be positive (got %g)", c.Solver.Tolerance)
	}
	if c.Solver.TimeoutMs <= 0 {
		return fmt.Errorf("solver.timeout_ms must be positive (got %d)", c.Solver.TimeoutMs)
	}
	return nil
}
