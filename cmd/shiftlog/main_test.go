package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/shiftlog/internal/config"
	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"site", "list"}, config.DefaultPath()},
		{"separate value", []string{"--config", "/tmp/a.yaml", "site", "list"}, "/tmp/a.yaml"},
		{"equals form after subcommand", []string{"solve", "--site", "KAL", "--config=/tmp/b.yaml"}, "/tmp/b.yaml"},
		{"help", []string{"-h"}, config.DefaultPath()},
		{"group override is not a config path", []string{"solve", "--group", "HAUL:min=8,max=12", "--save"}, config.DefaultPath()},
		{"config file alongside group override", []string{"--config", "/tmp/c.yaml", "solve", "--group", "HAUL:min=8,max=12"}, "/tmp/c.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, configPathFromArgs(tt.args))
		})
	}
}

func TestNewLogger_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "shiftlog", line["logger"])
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "debug", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("opened")
	assert.Contains(t, buf.String(), "opened")
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := newLogger(config.LoggingConfig{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "shiftlog.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db: "+dbPath+"\nlogging:\n  level: error\n"), 0o644))

	require.NoError(t, run([]string{"--config", cfgPath, "site", "add", "--code", "KAL", "--name", "Kalgoorlie"}))
	require.NoError(t, run([]string{"--config", cfgPath, "site", "list"}))
	assert.FileExists(t, dbPath)

	err := run([]string{"--config", cfgPath, "solve", "--site", "KAL", "--month", "2025-03", "--class", "loader"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_TOTALS")
}

func TestRun_AuditFileRecordsUseCases(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	auditPath := filepath.Join(dir, "logs", "audit.log")
	cfg := "db: " + filepath.Join(dir, "shiftlog.db") + "\nlogging:\n  level: error\n  audit_file: " + auditPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	require.NoError(t, run([]string{"--config", cfgPath, "site", "add", "--code", "KAL", "--name", "Kalgoorlie"}))
	require.Error(t, run([]string{"--config", cfgPath, "solve", "--site", "KAL", "--month", "2025-03", "--class", "truck"}))

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "use_case=solve")
	assert.Contains(t, string(data), "NO_TOTALS")
}

func TestRun_ConfigFileWithGroupOverrideSavesToConfiguredDB(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "shiftlog.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db: "+dbPath+"\nlogging:\n  level: error\n"), 0o644))

	steps := [][]string{
		{"site", "add", "--code", "KAL", "--name", "Kalgoorlie"},
		{"equipment", "add", "--site", "KAL", "--id", "TR-01", "--class", "truck"},
		{"activity", "log", "--site", "KAL", "--equipment", "TR-01", "--date", "2025-03-10", "--units", "30"},
		{"activity", "log", "--site", "KAL", "--equipment", "TR-01", "--date", "2025-03-11", "--units", "10", "--category", "development"},
		{"totals", "set", "--site", "KAL", "--month", "2025-03", "--prod", "300", "--dev", "100"},
		{"solve", "--site", "KAL", "--month", "2025-03", "--class", "truck",
			"--group", "TR-01:min=8,max=12", "--save", "--yes"},
	}
	for _, args := range steps {
		require.NoError(t, run(append([]string{"--config", cfgPath}, args...)), "%v", args)
	}

	database, err := db.OpenDB(dbPath)
	require.NoError(t, err)
	defer database.Close()

	var row struct {
		Min    float64 `db:"min_factor"`
		Factor float64 `db:"factor"`
	}
	require.NoError(t, database.Get(&row,
		`SELECT min_factor, factor FROM factor_configs WHERE code = 'TR-01' AND month = '2025-03'`))
	assert.Equal(t, 8.0, row.Min)
	assert.InDelta(t, 10.0, row.Factor, 1e-9)

	var history int
	require.NoError(t, database.Get(&history, `SELECT COUNT(*) FROM factor_history`))
	assert.Equal(t, 1, history)
}
