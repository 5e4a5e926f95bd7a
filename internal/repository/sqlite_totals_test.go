package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsRepo_UpsertGetLock(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	site := seedSite(t, db, nil)
	repo := NewSQLiteTotalsRepo(db)

	_, err := repo.Get(ctx, site.ID, "2025-03")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &domain.ReconciledTotals{SiteID: site.ID, Month: "2025-03", ProdTonnes: 500, DevTonnes: 250}))
	require.NoError(t, repo.Upsert(ctx, &domain.ReconciledTotals{SiteID: site.ID, Month: "2025-03", ProdTonnes: 520.5, DevTonnes: 240}))

	got, err := repo.Get(ctx, site.ID, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 520.5, got.ProdTonnes)
	assert.Equal(t, 240.0, got.DevTonnes)
	assert.False(t, got.Locked)

	require.NoError(t, repo.SetLocked(ctx, site.ID, "2025-03", true))
	got, err = repo.Get(ctx, site.ID, "2025-03")
	require.NoError(t, err)
	assert.True(t, got.Locked)

	assert.ErrorIs(t, repo.SetLocked(ctx, site.ID, "2025-09", true), ErrNotFound)
}

func TestTotalsRepo_ListNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	site := seedSite(t, db, nil)
	repo := NewSQLiteTotalsRepo(db)

	for _, m := range []domain.Month{"2025-01", "2025-03", "2025-02"} {
		require.NoError(t, repo.Upsert(ctx, &domain.ReconciledTotals{SiteID: site.ID, Month: m, ProdTonnes: 1}))
	}
	list, err := repo.ListBySite(ctx, site.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.Month("2025-03"), list[0].Month)
	assert.Equal(t, domain.Month("2025-01"), list[2].Month)
}
