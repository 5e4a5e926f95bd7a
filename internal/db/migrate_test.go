package db

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; should succeed without error.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"sites", "equipment", "equipment_assignments", "shift_activities",
		"reconciled_totals", "factor_configs", "factor_history",
	}
	for _, table := range expected {
		var name string
		err := db.Get(&name, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_activities_site_date",
		"idx_activities_equipment",
		"idx_factor_history_site_month",
	}
	for _, idx := range expected {
		var name string
		err := db.Get(&name, `SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddsOperatorColumn(t *testing.T) {
	db := openTestDB(t)

	var cols []struct {
		CID     int     `db:"cid"`
		Name    string  `db:"name"`
		Type    string  `db:"type"`
		NotNull int     `db:"notnull"`
		Default *string `db:"dflt_value"`
		PK      int     `db:"pk"`
	}
	require.NoError(t, db.Select(&cols, `PRAGMA table_info(shift_activities)`))

	var found bool
	for _, c := range cols {
		if c.Name == "operator" {
			found = true
		}
	}
	assert.True(t, found, "shift_activities.operator should exist")
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.Get(&fk, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")

	_, err := db.Exec(`INSERT INTO equipment (site_id, id, class, name, created_at)
		VALUES ('missing', 'LHD-01', 'loader', '', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "equipment must reference an existing site")
}

func TestMigrate_CheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO sites (id, code, name, created_at, updated_at)
		VALUES ('s1', 'NTH', 'North', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO equipment (site_id, id, class, name, created_at)
		VALUES ('s1', 'X-1', 'dozer', '', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "class must be loader or truck")

	_, err = db.Exec(`INSERT INTO reconciled_totals (site_id, month, prod_tonnes, dev_tonnes, updated_at)
		VALUES ('s1', '2025-01', -1, 0, '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "tonnes must be non-negative")
}

func TestMigrate_InMemoryJournalMode(t *testing.T) {
	// In-memory SQLite uses "memory" journal mode; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.Get(&mode, `PRAGMA journal_mode`))
	assert.Equal(t, "memory", mode)
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, DriverPostgres, DriverFor("postgres://u:p@localhost/shiftlog?sslmode=disable"))
	assert.Equal(t, DriverPostgres, DriverFor("postgresql://localhost/shiftlog"))
	assert.Equal(t, DriverSQLite, DriverFor("/var/lib/shiftlog/shiftlog.db"))
	assert.Equal(t, DriverSQLite, DriverFor(":memory:"))
}

func TestOpenDB_FileCreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/shiftlog.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.Get(&mode, `PRAGMA journal_mode`))
	assert.Equal(t, "wal", mode)
}
