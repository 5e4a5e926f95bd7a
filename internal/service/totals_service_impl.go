package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
)

type totalsService struct {
	totals repository.TotalsRepo
}

func NewTotalsService(totals repository.TotalsRepo) TotalsService {
	return &totalsService{totals: totals}
}

func (s *totalsService) Set(ctx context.Context, t *domain.ReconciledTotals) error {
	if _, err := domain.ParseMonth(string(t.Month)); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	existing, err := s.totals.Get(ctx, t.SiteID, t.Month)
	switch {
	case err == nil && existing.Locked:
		return fmt.Errorf("totals for %s: %w", t.Month, ErrTotalsLocked)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return err
	}

	t.Locked = false
	t.UpdatedAt = time.Now().UTC()
	return s.totals.Upsert(ctx, t)
}

func (s *totalsService) Get(ctx context.Context, siteID string, month domain.Month) (*domain.ReconciledTotals, error) {
	return s.totals.Get(ctx, siteID, month)
}

func (s *totalsService) List(ctx context.Context, siteID string) ([]*domain.ReconciledTotals, error) {
	return s.totals.ListBySite(ctx, siteID)
}

func (s *totalsService) Lock(ctx context.Context, siteID string, month domain.Month, locked bool) error {
	return s.totals.SetLocked(ctx, siteID, month, locked)
}

type historyService struct {
	history repository.HistoryRepo
}

func NewHistoryService(history repository.HistoryRepo) HistoryService {
	return &historyService{history: history}
}

func (s *historyService) List(ctx context.Context, siteID string, filter repository.HistoryFilter) ([]domain.FactorHistoryEntry, error) {
	return s.history.List(ctx, siteID, filter)
}
