package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/google/uuid"
)

var testSiteCounter atomic.Int64

// Site options
type SiteOption func(*domain.Site)

func WithSiteCode(code string) SiteOption {
	return func(s *domain.Site) {
		s.Code = code
	}
}

func NewTestSite(name string, opts ...SiteOption) *domain.Site {
	now := time.Now().UTC()
	s := &domain.Site{
		ID:        uuid.New().String(),
		Code:      fmt.Sprintf("S%03d", testSiteCounter.Add(1)),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestEquipment(siteID, id string, class domain.EquipmentClass) *domain.Equipment {
	return &domain.Equipment{
		SiteID:    siteID,
		ID:        id,
		Class:     class,
		Name:      id,
		CreatedAt: time.Now().UTC(),
	}
}

// ShiftActivity options
type ActivityOption func(*domain.ShiftActivity)

func WithShiftDate(d time.Time) ActivityOption {
	return func(a *domain.ShiftActivity) {
		a.ShiftDate = d
	}
}

func WithCategory(c domain.Category) ActivityOption {
	return func(a *domain.ShiftActivity) {
		a.Category = c
	}
}

func WithKind(k domain.ActivityKind) ActivityOption {
	return func(a *domain.ShiftActivity) {
		a.Kind = k
	}
}

func WithStatus(s domain.ShiftStatus) ActivityOption {
	return func(a *domain.ShiftActivity) {
		a.Status = s
	}
}

func WithOperator(name string) ActivityOption {
	return func(a *domain.ShiftActivity) {
		a.Operator = name
	}
}

// NewTestActivity builds a submitted production loading line dated the
// 15th of month.
func NewTestActivity(siteID, equipmentID string, month domain.Month, units int, opts ...ActivityOption) *domain.ShiftActivity {
	start, _, err := month.Bounds()
	if err != nil {
		panic(err)
	}
	now := time.Now().UTC()
	a := &domain.ShiftActivity{
		ID:          uuid.New().String(),
		SiteID:      siteID,
		EquipmentID: equipmentID,
		ShiftDate:   start.AddDate(0, 0, 14),
		Category:    domain.CategoryProduction,
		Kind:        domain.ActivityLoading,
		Units:       units,
		Status:      domain.ShiftSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
