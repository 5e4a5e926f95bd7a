package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "shiftlog.db", filepath.Base(cfg.DB))
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 500, cfg.Solver.MaxIterations)
	assert.Equal(t, 300*time.Millisecond, cfg.Solver.Timeout())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: /var/lib/shiftlog/site.db
logging:
  level: debug
solver:
  timeout_ms: 50
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/shiftlog/site.db", cfg.DB)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset keys keep their defaults")
	assert.Equal(t, 50, cfg.Solver.TimeoutMs)
	assert.Equal(t, 500, cfg.Solver.MaxIterations)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver: [1, 2"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("env beats file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("db: from-file.db\n"), 0o644))
		t.Setenv("SHIFTLOG_DB", "postgres://localhost/shiftlog")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "postgres://localhost/shiftlog", cfg.DB)
	})

	t.Run("numeric and bool values", func(t *testing.T) {
		t.Setenv("SHIFTLOG_SOLVER_MAX_ITERATIONS", "40")
		t.Setenv("SHIFTLOG_SOLVER_TOLERANCE", "1e-6")
		t.Setenv("SHIFTLOG_SOLVER_TIMEOUT_MS", "1000")
		t.Setenv("SHIFTLOG_LOG_USE_CASES", "true")
		t.Setenv("SHIFTLOG_LOG_LEVEL", "info")
		t.Setenv("SHIFTLOG_LOG_FORMAT", "json")
		t.Setenv("SHIFTLOG_AUDIT_FILE", "/var/log/shiftlog/audit.log")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 40, cfg.Solver.MaxIterations)
		assert.Equal(t, 1e-6, cfg.Solver.Tolerance)
		assert.Equal(t, time.Second, cfg.Solver.Timeout())
		assert.True(t, cfg.Logging.UseCases)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, "/var/log/shiftlog/audit.log", cfg.Logging.AuditFile)
	})

	t.Run("unparseable values are ignored", func(t *testing.T) {
		t.Setenv("SHIFTLOG_SOLVER_MAX_ITERATIONS", "many")
		t.Setenv("SHIFTLOG_SOLVER_TIMEOUT_MS", "-5")
		t.Setenv("SHIFTLOG_LOG_USE_CASES", "sometimes")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 500, cfg.Solver.MaxIterations)
		assert.Equal(t, 300, cfg.Solver.TimeoutMs)
		assert.False(t, cfg.Logging.UseCases)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		expect string
	}{
		{"empty db", func(c *Config) { c.DB = "" }, "db is required"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero iterations", func(c *Config) { c.Solver.MaxIterations = 0 }, "max_iterations"},
		{"zero tolerance", func(c *Config) { c.Solver.Tolerance = 0 }, "tolerance"},
		{"zero timeout", func(c *Config) { c.Solver.TimeoutMs = 0 }, "timeout_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.expect)
		})
	}
}
