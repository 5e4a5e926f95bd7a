package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
)

type equipmentService struct {
	equipment   repository.EquipmentRepo
	assignments repository.AssignmentRepo
}

func NewEquipmentService(equipment repository.EquipmentRepo, assignments repository.AssignmentRepo) EquipmentService {
	return &equipmentService{equipment: equipment, assignments: assignments}
}

func (s *equipmentService) Register(ctx context.Context, e *domain.Equipment) error {
	e.ID = strings.TrimSpace(e.ID)
	if e.ID == "" {
		return fmt.Errorf("equipment id is required")
	}
	if !domain.ValidClasses[string(e.Class)] {
		return fmt.Errorf("invalid equipment class %q (expected loader or truck)", e.Class)
	}
	if e.Name == "" {
		e.Name = e.ID
	}
	e.CreatedAt = time.Now().UTC()
	return s.equipment.Create(ctx, e)
}

func (s *equipmentService) List(ctx context.Context, siteID string, class domain.EquipmentClass) ([]*domain.Equipment, error) {
	return s.equipment.ListBySite(ctx, siteID, class)
}

func (s *equipmentService) Assign(ctx context.Context, siteID, equipmentID, code string) error {
	e, err := s.equipment.Get(ctx, siteID, equipmentID)
	if err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return s.assignments.Delete(ctx, siteID, e.Class, e.ID)
	}
	return s.assignments.Upsert(ctx, &domain.Assignment{
		SiteID:      siteID,
		Class:       e.Class,
		EquipmentID: e.ID,
		ConfigCode:  code,
		UpdatedAt:   time.Now().UTC(),
	})
}

func (s *equipmentService) Assignments(ctx context.Context, siteID string, class domain.EquipmentClass) ([]domain.Assignment, error) {
	return s.assignments.ListBySite(ctx, siteID, class)
}
