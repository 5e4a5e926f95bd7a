package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/solver"
	"github.com/alexanderramin/shiftlog/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const testMonth = domain.Month("2025-03")

type fixture struct {
	db      *sqlx.DB
	repos   ReconcileRepos
	history repository.HistoryRepo
	uow     db.UnitOfWork
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &fixture{
		db: database,
		repos: ReconcileRepos{
			Sites:       repository.NewSQLiteSiteRepo(database),
			Equipment:   repository.NewSQLiteEquipmentRepo(database),
			Activities:  repository.NewSQLiteActivityRepo(database),
			Totals:      repository.NewSQLiteTotalsRepo(database),
			Assignments: repository.NewSQLiteAssignmentRepo(database),
			Factors:     repository.NewSQLiteFactorRepo(database),
		},
		history: repository.NewSQLiteHistoryRepo(database),
		uow:     testutil.NewTestUoW(database),
	}
}

func (f *fixture) service(observers ...UseCaseObserver) *reconcileService {
	return NewReconcileService(f.repos, f.uow, ReconcileOptions{Solver: solver.DefaultOptions()}, observers...).(*reconcileService)
}

func (f *fixture) site(t *testing.T, code string, equipment map[string]domain.EquipmentClass) *domain.Site {
	t.Helper()
	ctx := context.Background()
	site := testutil.NewTestSite("Site "+code, testutil.WithSiteCode(code))
	require.NoError(t, f.repos.Sites.Create(ctx, site))
	for id, class := range equipment {
		require.NoError(t, f.repos.Equipment.Create(ctx, testutil.NewTestEquipment(site.ID, id, class)))
	}
	return site
}

func (f *fixture) log(t *testing.T, siteID, equipmentID string, units int, opts ...testutil.ActivityOption) {
	t.Helper()
	a := testutil.NewTestActivity(siteID, equipmentID, testMonth, units, opts...)
	require.NoError(t, f.repos.Activities.Create(context.Background(), a))
}

func (f *fixture) totals(t *testing.T, siteID string, prod, dev float64) {
	t.Helper()
	require.NoError(t, f.repos.Totals.Upsert(context.Background(), &domain.ReconciledTotals{
		SiteID:     siteID,
		Month:      testMonth,
		ProdTonnes: prod,
		DevTonnes:  dev,
	}))
}

// twoLoaderSite seeds LHD-01 with 100 production buckets and LHD-02 with
// 50 development buckets against 300 t production and 100 t development,
// which fits factors 3 and 2 exactly.
func (f *fixture) twoLoaderSite(t *testing.T) *domain.Site {
	t.Helper()
	site := f.site(t, "KAL", map[string]domain.EquipmentClass{
		"LHD-01": domain.ClassLoader,
		"LHD-02": domain.ClassLoader,
	})
	f.log(t, site.ID, "LHD-01", 60)
	f.log(t, site.ID, "LHD-01", 40)
	f.log(t, site.ID, "LHD-02", 50, testutil.WithCategory(domain.CategoryDevelopment))
	f.totals(t, site.ID, 300, 100)
	return site
}

// truckFleet adds TR-01 (30 production loads) and TR-02 (25 development
// loads) to site.
func (f *fixture) truckFleet(t *testing.T, site *domain.Site) {
	t.Helper()
	for _, id := range []string{"TR-01", "TR-02"} {
		require.NoError(t, f.repos.Equipment.Create(context.Background(), testutil.NewTestEquipment(site.ID, id, domain.ClassTruck)))
	}
	f.log(t, site.ID, "TR-01", 30, testutil.WithKind(domain.ActivityHauling))
	f.log(t, site.ID, "TR-02", 25, testutil.WithKind(domain.ActivityHauling), testutil.WithCategory(domain.CategoryDevelopment))
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) snapshot() []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]UseCaseEvent(nil), o.events...)
}

func ptrFloat(f float64) *float64 { return &f }
