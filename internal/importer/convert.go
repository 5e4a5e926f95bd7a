package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/google/uuid"
)

// ConvertedSite holds all domain objects created from a site bundle.
type ConvertedSite struct {
	Site        *domain.Site
	Equipment   []*domain.Equipment
	Activities  []*domain.ShiftActivity
	Totals      []*domain.ReconciledTotals
	Assignments []*domain.Assignment
	Configs     []*domain.FactorRecord
}

// Convert transforms a validated SiteBundle into domain objects. Call
// ValidateSiteBundle first; Convert only reports errors that validation
// cannot catch.
func Convert(b *SiteBundle) (*ConvertedSite, error) {
	now := time.Now().UTC()
	siteID := uuid.New().String()

	result := &ConvertedSite{
		Site: &domain.Site{
			ID:        siteID,
			Code:      b.Site.Code,
			Name:      b.Site.Name,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	classes := make(map[string]domain.EquipmentClass, len(b.Equipment))
	for _, e := range b.Equipment {
		class := domain.EquipmentClass(e.Class)
		classes[e.ID] = class
		result.Equipment = append(result.Equipment, &domain.Equipment{
			SiteID:    siteID,
			ID:        e.ID,
			Class:     class,
			Name:      domain.CoalesceStr(e.Name, e.ID),
			CreatedAt: now,
		})
	}

	for i, a := range b.Activities {
		class, ok := classes[a.Equipment]
		if !ok {
			return nil, fmt.Errorf("activities[%d]: unknown equipment %q", i, a.Equipment)
		}
		date, err := time.Parse("2006-01-02", a.Date)
		if err != nil {
			return nil, fmt.Errorf("activities[%d]: %w", i, err)
		}
		kind := domain.ActivityKind(domain.CoalesceStr(a.Kind, string(class.UnitActivity())))
		status := domain.ShiftStatus(domain.CoalesceStr(a.Status, string(domain.ShiftSubmitted)))
		result.Activities = append(result.Activities, &domain.ShiftActivity{
			ID:          uuid.New().String(),
			SiteID:      siteID,
			EquipmentID: a.Equipment,
			ShiftDate:   date,
			Category:    domain.Category(a.Category),
			Kind:        kind,
			Units:       a.Units,
			Operator:    a.Operator,
			Status:      status,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	for _, t := range b.Totals {
		result.Totals = append(result.Totals, &domain.ReconciledTotals{
			SiteID:     siteID,
			Month:      domain.Month(t.Month),
			ProdTonnes: t.Prod,
			DevTonnes:  t.Dev,
			Locked:     t.Locked,
			UpdatedAt:  now,
		})
	}

	for i, a := range b.Assignments {
		class, ok := classes[a.Equipment]
		if !ok {
			return nil, fmt.Errorf("assignments[%d]: unknown equipment %q", i, a.Equipment)
		}
		result.Assignments = append(result.Assignments, &domain.Assignment{
			SiteID:      siteID,
			Class:       class,
			EquipmentID: a.Equipment,
			ConfigCode:  a.Code,
			UpdatedAt:   now,
		})
	}

	for _, c := range b.Configs {
		result.Configs = append(result.Configs, &domain.FactorRecord{
			SiteID: siteID,
			Class:  domain.EquipmentClass(c.Class),
			Month:  domain.Month(c.Month),
			GroupConfig: domain.GroupConfig{
				Code:     c.Code,
				Estimate: c.Estimate,
				Min:      c.Min,
				Max:      c.Max,
				Lock:     c.Lock,
			},
			UpdatedAt: now,
		})
	}

	return result, nil
}
