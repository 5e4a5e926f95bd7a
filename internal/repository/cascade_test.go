package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/testutil"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, db *sqlx.DB, table, siteID string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table+" WHERE site_id = ?", siteID))
	return n
}

func TestCascadeDelete_SiteRemovesEverything(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	site := seedSite(t, db, map[string]domain.EquipmentClass{
		"LHD-01": domain.ClassLoader,
		"TR-01":  domain.ClassTruck,
	})
	month := domain.Month("2025-03")

	require.NoError(t, NewSQLiteActivityRepo(db).Create(ctx, testutil.NewTestActivity(site.ID, "LHD-01", month, 10)))
	require.NoError(t, NewSQLiteAssignmentRepo(db).Upsert(ctx, &domain.Assignment{
		SiteID: site.ID, Class: domain.ClassLoader, EquipmentID: "LHD-01", ConfigCode: "BIG", UpdatedAt: time.Now(),
	}))
	require.NoError(t, NewSQLiteTotalsRepo(db).Upsert(ctx, &domain.ReconciledTotals{
		SiteID: site.ID, Month: month, ProdTonnes: 10, UpdatedAt: time.Now(),
	}))
	require.NoError(t, NewSQLiteFactorRepo(db).Upsert(ctx, &domain.FactorRecord{
		SiteID: site.ID, Class: domain.ClassLoader, Month: month,
		GroupConfig: domain.GroupConfig{Code: "BIG"}, Factor: domain.Float64Ptr(1),
	}))
	require.NoError(t, NewSQLiteHistoryRepo(db).Append(ctx, &domain.FactorHistoryEntry{
		ID: uuid.New().String(), SiteID: site.ID, Class: domain.ClassLoader, Month: month,
		Code: "BIG", Factor: 1, SolvedAt: time.Now(),
	}))

	_, err := db.Exec("DELETE FROM sites WHERE id = ?", site.ID)
	require.NoError(t, err)

	for _, table := range []string{
		"equipment", "equipment_assignments", "shift_activities",
		"reconciled_totals", "factor_configs", "factor_history",
	} {
		assert.Zero(t, countRows(t, db, table, site.ID), table)
	}
}

func TestCascadeDelete_EquipmentRemovesActivityAndAssignment(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	site := seedSite(t, db, map[string]domain.EquipmentClass{
		"LHD-01": domain.ClassLoader,
		"LHD-02": domain.ClassLoader,
	})
	acts := NewSQLiteActivityRepo(db)
	require.NoError(t, acts.Create(ctx, testutil.NewTestActivity(site.ID, "LHD-01", "2025-03", 10)))
	require.NoError(t, acts.Create(ctx, testutil.NewTestActivity(site.ID, "LHD-02", "2025-03", 7)))
	require.NoError(t, NewSQLiteAssignmentRepo(db).Upsert(ctx, &domain.Assignment{
		SiteID: site.ID, Class: domain.ClassLoader, EquipmentID: "LHD-01", ConfigCode: "BIG", UpdatedAt: time.Now(),
	}))

	_, err := db.Exec("DELETE FROM equipment WHERE site_id = ? AND id = ?", site.ID, "LHD-01")
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, db, "shift_activities", site.ID))
	assert.Zero(t, countRows(t, db, "equipment_assignments", site.ID))
}

func TestForeignKey_EquipmentRequiresSite(t *testing.T) {
	db := testutil.NewTestDB(t)
	err := NewSQLiteEquipmentRepo(db).Create(context.Background(),
		testutil.NewTestEquipment(uuid.New().String(), "LHD-01", domain.ClassLoader))
	assert.Error(t, err)
}

func TestForeignKey_ActivityRequiresEquipment(t *testing.T) {
	db := testutil.NewTestDB(t)
	site := seedSite(t, db, nil)
	err := NewSQLiteActivityRepo(db).Create(context.Background(),
		testutil.NewTestActivity(site.ID, "GHOST", "2025-03", 5))
	assert.Error(t, err)
}

func TestForeignKey_AssignmentRequiresEquipment(t *testing.T) {
	db := testutil.NewTestDB(t)
	site := seedSite(t, db, nil)
	err := NewSQLiteAssignmentRepo(db).Upsert(context.Background(), &domain.Assignment{
		SiteID: site.ID, Class: domain.ClassTruck, EquipmentID: "GHOST", ConfigCode: "H", UpdatedAt: time.Now(),
	})
	assert.Error(t, err)
}
