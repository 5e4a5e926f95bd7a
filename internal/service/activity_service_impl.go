package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when an activity's status cannot move to
// the requested state.
var ErrInvalidTransition = errors.New("invalid status transition")

type activityService struct {
	activities repository.ActivityRepo
	equipment  repository.EquipmentRepo
}

func NewActivityService(activities repository.ActivityRepo, equipment repository.EquipmentRepo) ActivityService {
	return &activityService{activities: activities, equipment: equipment}
}

func (s *activityService) Log(ctx context.Context, a *domain.ShiftActivity) error {
	e, err := s.equipment.Get(ctx, a.SiteID, a.EquipmentID)
	if err != nil {
		return err
	}
	if a.Units < 0 {
		return fmt.Errorf("units must be non-negative (got %d)", a.Units)
	}
	if a.ShiftDate.IsZero() {
		return fmt.Errorf("shift date is required")
	}
	if !domain.ValidCategories[string(a.Category)] {
		return fmt.Errorf("invalid category %q (expected production or development)", a.Category)
	}
	if a.Kind == "" {
		a.Kind = e.Class.UnitActivity()
	}
	if !domain.ValidActivityKinds[string(a.Kind)] {
		return fmt.Errorf("invalid activity kind %q", a.Kind)
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.Status = domain.ShiftSubmitted
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.activities.Create(ctx, a)
}

func (s *activityService) Validate(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.ShiftValidated)
}

func (s *activityService) Reject(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.ShiftRejected)
}

// transition moves a submitted activity to its final status. Validated and
// rejected are terminal.
func (s *activityService) transition(ctx context.Context, id string, to domain.ShiftStatus) error {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status != domain.ShiftSubmitted {
		return fmt.Errorf("activity %s is already %s: %w", id, a.Status, ErrInvalidTransition)
	}
	return s.activities.UpdateStatus(ctx, id, to)
}

func (s *activityService) List(ctx context.Context, siteID string, filter repository.ActivityFilter) ([]*domain.ShiftActivity, error) {
	return s.activities.ListBySite(ctx, siteID, filter)
}

func (s *activityService) Summary(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) ([]domain.EquipmentItem, error) {
	return s.activities.AggregateUnits(ctx, siteID, class, month)
}
