package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/app"
	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/importer"
	"github.com/alexanderramin/shiftlog/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService creates the site import use case. All writes for one
// bundle happen in a single transaction.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportSite(ctx context.Context, filePath string) (*app.ImportResult, error) {
	bundle, err := importer.LoadSiteBundle(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSiteFromBundle(ctx, bundle)
}

func (s *importService) ImportSiteFromBundle(ctx context.Context, bundle *importer.SiteBundle) (result *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": bundle.Site.Code}
	defer func() {
		if result != nil {
			fields["equipment"] = result.EquipmentCount
			fields["activities"] = result.ActivityCount
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-site",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateSiteBundle(bundle); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	converted, err := importer.Convert(bundle)
	if err != nil {
		return nil, fmt.Errorf("converting site bundle: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSiteRepo(tx).Create(ctx, converted.Site); err != nil {
			return fmt.Errorf("creating site: %w", err)
		}

		equipment := repository.NewSQLiteEquipmentRepo(tx)
		for _, e := range converted.Equipment {
			if err := equipment.Create(ctx, e); err != nil {
				return fmt.Errorf("creating equipment %q: %w", e.ID, err)
			}
		}

		activities := repository.NewSQLiteActivityRepo(tx)
		for i, a := range converted.Activities {
			if err := activities.Create(ctx, a); err != nil {
				return fmt.Errorf("creating activity %d: %w", i, err)
			}
		}

		totals := repository.NewSQLiteTotalsRepo(tx)
		for _, t := range converted.Totals {
			if err := totals.Upsert(ctx, t); err != nil {
				return fmt.Errorf("creating totals for %s: %w", t.Month, err)
			}
		}

		assignments := repository.NewSQLiteAssignmentRepo(tx)
		for _, a := range converted.Assignments {
			if err := assignments.Upsert(ctx, a); err != nil {
				return fmt.Errorf("creating assignment for %q: %w", a.EquipmentID, err)
			}
		}

		factors := repository.NewSQLiteFactorRepo(tx)
		for _, c := range converted.Configs {
			if err := factors.Upsert(ctx, c); err != nil {
				return fmt.Errorf("creating config %s/%s: %w", c.Month, c.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &app.ImportResult{
		Site:            converted.Site,
		EquipmentCount:  len(converted.Equipment),
		ActivityCount:   len(converted.Activities),
		TotalsCount:     len(converted.Totals),
		AssignmentCount: len(converted.Assignments),
		ConfigCount:     len(converted.Configs),
	}, nil
}
