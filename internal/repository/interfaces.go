package repository

import (
	"context"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

type SiteRepo interface {
	Create(ctx context.Context, s *domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	GetByCode(ctx context.Context, code string) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
}

type EquipmentRepo interface {
	Create(ctx context.Context, e *domain.Equipment) error
	Get(ctx context.Context, siteID, id string) (*domain.Equipment, error)
	// ListBySite returns the site's equipment ordered by ID. An empty class
	// lists every class.
	ListBySite(ctx context.Context, siteID string, class domain.EquipmentClass) ([]*domain.Equipment, error)
}

type AssignmentRepo interface {
	Upsert(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, siteID string, class domain.EquipmentClass, equipmentID string) error
	ListBySite(ctx context.Context, siteID string, class domain.EquipmentClass) ([]domain.Assignment, error)
	// Map returns equipment ID → config code for one site and class.
	Map(ctx context.Context, siteID string, class domain.EquipmentClass) (map[string]string, error)
}

// ActivityFilter narrows ListBySite. Zero values match everything.
type ActivityFilter struct {
	Month       domain.Month
	EquipmentID string
	Status      domain.ShiftStatus
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.ShiftActivity) error
	GetByID(ctx context.Context, id string) (*domain.ShiftActivity, error)
	UpdateStatus(ctx context.Context, id string, status domain.ShiftStatus) error
	ListBySite(ctx context.Context, siteID string, filter ActivityFilter) ([]*domain.ShiftActivity, error)
	// AggregateUnits sums one month of non-rejected activity per machine of
	// the class. Every machine of the class appears, with zero units when it
	// logged nothing.
	AggregateUnits(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) ([]domain.EquipmentItem, error)
}

type TotalsRepo interface {
	Get(ctx context.Context, siteID string, month domain.Month) (*domain.ReconciledTotals, error)
	Upsert(ctx context.Context, t *domain.ReconciledTotals) error
	SetLocked(ctx context.Context, siteID string, month domain.Month, locked bool) error
	ListBySite(ctx context.Context, siteID string) ([]*domain.ReconciledTotals, error)
}

type FactorRepo interface {
	ListByMonth(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) ([]domain.FactorRecord, error)
	// LatestMonthBefore returns the most recent month earlier than month
	// that has stored configs, or ErrNotFound.
	LatestMonthBefore(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) (domain.Month, error)
	Upsert(ctx context.Context, rec *domain.FactorRecord) error
}

// HistoryFilter narrows List. Zero values match everything; Limit ≤ 0
// means no limit.
type HistoryFilter struct {
	Class domain.EquipmentClass
	Month domain.Month
	Code  string
	Limit int
}

type HistoryRepo interface {
	Append(ctx context.Context, e *domain.FactorHistoryEntry) error
	List(ctx context.Context, siteID string, filter HistoryFilter) ([]domain.FactorHistoryEntry, error)
}
