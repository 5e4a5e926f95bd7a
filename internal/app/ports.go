package app

import (
	"context"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/importer"
)

type SolveUseCase interface {
	Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error)
	SolveAll(ctx context.Context, req SolveRequest) (*SolveAllResponse, error)
}

type ImportResult struct {
	Site            *domain.Site
	EquipmentCount  int
	ActivityCount   int
	TotalsCount     int
	AssignmentCount int
	ConfigCount     int
}

type ImportSiteUseCase interface {
	ImportSite(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSiteFromBundle(ctx context.Context, bundle *importer.SiteBundle) (*ImportResult, error)
}
