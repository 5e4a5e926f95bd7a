package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/shiftlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSiteRepo(db)
	ctx := context.Background()

	site := testutil.NewTestSite("Kalgoorlie North", testutil.WithSiteCode("KALN"))
	require.NoError(t, repo.Create(ctx, site))

	byID, err := repo.GetByID(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kalgoorlie North", byID.Name)
	assert.Equal(t, "KALN", byID.Code)
	assert.Equal(t, site.CreatedAt.Unix(), byID.CreatedAt.Unix())

	// Case-insensitive lookup.
	byCode, err := repo.GetByCode(ctx, "kaln")
	require.NoError(t, err)
	assert.Equal(t, site.ID, byCode.ID)
}

func TestSiteRepo_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSiteRepo(db)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSiteRepo_DuplicateCodeRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSiteRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSite("A", testutil.WithSiteCode("DUP"))))
	assert.Error(t, repo.Create(ctx, testutil.NewTestSite("B", testutil.WithSiteCode("DUP"))))
}

func TestSiteRepo_ListOrderedByCode(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSiteRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSite("South", testutil.WithSiteCode("STH"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSite("North", testutil.WithSiteCode("NTH"))))

	sites, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "NTH", sites[0].Code)
	assert.Equal(t, "STH", sites[1].Code)
}
