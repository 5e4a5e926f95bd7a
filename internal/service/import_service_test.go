package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/shiftlog/internal/app"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/importer"
	"github.com/alexanderramin/shiftlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSiteBundle() *importer.SiteBundle {
	return &importer.SiteBundle{
		Site: importer.SiteImport{Code: "KAL", Name: "Kalgoorlie North"},
		Equipment: []importer.EquipmentImport{
			{ID: "LHD-01", Class: "loader"},
			{ID: "LHD-02", Class: "loader"},
			{ID: "TR-01", Class: "truck"},
		},
		Activities: []importer.ActivityImport{
			{Equipment: "LHD-01", Date: "2025-03-03", Category: "production", Units: 100},
			{Equipment: "LHD-02", Date: "2025-03-04", Category: "development", Units: 50},
			{Equipment: "TR-01", Date: "2025-03-04", Category: "production", Units: 30},
		},
		Totals:      []importer.TotalsImport{{Month: "2025-03", Prod: 300, Dev: 100}},
		Assignments: []importer.AssignmentImport{{Equipment: "TR-01", Code: "HAUL"}},
		Configs: []importer.ConfigImport{
			{Class: "loader", Month: "2025-02", Code: "LHD-01", Estimate: ptrFloat(3.2), Lock: true},
		},
	}
}

func TestImportSite_ThenSolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewImportService(f.uow)

	result, err := svc.ImportSiteFromBundle(ctx, validSiteBundle())
	require.NoError(t, err)
	assert.Equal(t, "KAL", result.Site.Code)
	assert.Equal(t, 3, result.EquipmentCount)
	assert.Equal(t, 3, result.ActivityCount)
	assert.Equal(t, 1, result.TotalsCount)
	assert.Equal(t, 1, result.AssignmentCount)
	assert.Equal(t, 1, result.ConfigCount)

	resp, err := f.service().Solve(ctx, app.NewSolveRequest("KAL", "2025-03", domain.ClassLoader))
	require.NoError(t, err)
	assert.Equal(t, domain.Month("2025-02"), resp.ConfigSource)
	assert.Equal(t, 3.2, factorOf(t, resp, "LHD-01"))
	assert.InDelta(t, 2.0, factorOf(t, resp, "LHD-02"), 1e-9)

	trucks, err := f.service().Solve(ctx, app.NewSolveRequest("KAL", "2025-03", domain.ClassTruck))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, factorOf(t, trucks, "HAUL"), 1e-9)
}

func TestImportSite_FromYAMLFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "site.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
site: {code: MINE2, name: Mine Two}
equipment:
  - {id: TR-01, class: truck}
totals:
  - {month: "2025-03", prod: 120, dev: 0}
`), 0o644))

	result, err := NewImportService(f.uow).ImportSite(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "MINE2", result.Site.Code)
	assert.Equal(t, 1, result.EquipmentCount)
	assert.Zero(t, result.ActivityCount)
}

func TestImportSite_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	bundle := validSiteBundle()
	bundle.Site.Code = ""
	bundle.Activities[0].Equipment = "GHOST"

	_, err := NewImportService(f.uow).ImportSiteFromBundle(context.Background(), bundle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), `unknown equipment "GHOST"`)
}

func TestImportSite_MissingFile(t *testing.T) {
	f := newFixture(t)
	_, err := NewImportService(f.uow).ImportSite(context.Background(), filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorContains(t, err, "loading import file")
}

func TestImportSite_RollbackOnEquipmentFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Exec calls: #1 = site, #2 = LHD-01, #3 = LHD-02.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     f.db,
		FailOn: 3,
		Err:    errors.New("injected equipment create failure"),
	}
	obs := &recordingObserver{}

	_, err := NewImportService(failUoW, obs).ImportSiteFromBundle(ctx, validSiteBundle())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected equipment create failure")

	sites, err := f.repos.Sites.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sites, "no sites should exist after rollback")

	events := obs.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "import-site", events[0].Name)
	assert.False(t, events[0].Success)
}

func TestImportSite_DuplicateSiteCode(t *testing.T) {
	f := newFixture(t)
	svc := NewImportService(f.uow)
	ctx := context.Background()

	_, err := svc.ImportSiteFromBundle(ctx, validSiteBundle())
	require.NoError(t, err)
	_, err = svc.ImportSiteFromBundle(ctx, validSiteBundle())
	assert.ErrorContains(t, err, "creating site")
}
