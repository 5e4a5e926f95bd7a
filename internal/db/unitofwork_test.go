package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sqlx.DB, *db.SQLUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	// Create a simple test table outside the migration set.
	_, err = database.Exec(`CREATE TABLE IF NOT EXISTS uow_test (id TEXT PRIMARY KEY, val TEXT)`)
	require.NoError(t, err)

	return database, db.NewSQLUnitOfWork(database)
}

func readVal(t *testing.T, database *sqlx.DB, id string) (string, bool) {
	t.Helper()
	var vals []string
	require.NoError(t, database.Select(&vals, `SELECT val FROM uow_test WHERE id = ?`, id))
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO uow_test (id, val) VALUES (?, ?)`), "k1", "v1")
		return err
	})
	require.NoError(t, err)

	val, found := readVal(t, database, "k1")
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, "v1", val)
}

func TestWithinTx_ReadsOwnWrites(t *testing.T) {
	_, uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k4", "v4"); err != nil {
			return err
		}
		var val string
		if err := tx.GetContext(ctx, &val, `SELECT val FROM uow_test WHERE id = ?`, "k4"); err != nil {
			return err
		}
		assert.Equal(t, "v4", val)
		assert.Equal(t, db.DriverSQLite, tx.DriverName())
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k2", "v2")
		if err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := readVal(t, database, "k2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openTestDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k3", "v3")
			panic("boom")
		})
	})

	_, found := readVal(t, database, "k3")
	assert.False(t, found, "row should not exist after panic rollback")
}
