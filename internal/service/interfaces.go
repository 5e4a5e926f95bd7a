package service

import (
	"context"

	"github.com/alexanderramin/shiftlog/internal/app"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
)

type SiteService interface {
	Create(ctx context.Context, s *domain.Site) error
	// Resolve accepts a site ID or site code.
	Resolve(ctx context.Context, ref string) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
}

type EquipmentService interface {
	Register(ctx context.Context, e *domain.Equipment) error
	List(ctx context.Context, siteID string, class domain.EquipmentClass) ([]*domain.Equipment, error)
	// Assign maps equipment to a config code. An empty code removes the
	// assignment.
	Assign(ctx context.Context, siteID, equipmentID, code string) error
	Assignments(ctx context.Context, siteID string, class domain.EquipmentClass) ([]domain.Assignment, error)
}

type ActivityService interface {
	Log(ctx context.Context, a *domain.ShiftActivity) error
	Validate(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	List(ctx context.Context, siteID string, filter repository.ActivityFilter) ([]*domain.ShiftActivity, error)
	// Summary returns the per-machine unit counts the solver would see.
	Summary(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) ([]domain.EquipmentItem, error)
}

type TotalsService interface {
	// Set records reconciled totals. A locked month is rejected with
	// ErrTotalsLocked.
	Set(ctx context.Context, t *domain.ReconciledTotals) error
	Get(ctx context.Context, siteID string, month domain.Month) (*domain.ReconciledTotals, error)
	List(ctx context.Context, siteID string) ([]*domain.ReconciledTotals, error)
	Lock(ctx context.Context, siteID string, month domain.Month, locked bool) error
}

type HistoryService interface {
	List(ctx context.Context, siteID string, filter repository.HistoryFilter) ([]domain.FactorHistoryEntry, error)
}

type ReconcileService = app.SolveUseCase

type ImportService = app.ImportSiteUseCase

// ImportResult holds the outcome of a site import.
type ImportResult = app.ImportResult
