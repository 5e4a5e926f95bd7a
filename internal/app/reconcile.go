package app

import (
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/solver"
)

type SolveRequest struct {
	// Site is a site ID or site code.
	Site  string
	Month string
	Class domain.EquipmentClass
	// Assignments and Configs override the persisted values per key.
	Assignments map[string]string
	Configs     map[string]domain.GroupConfig
	// Save persists configs, factors, assignments and history. When false
	// the call is a read-only recalculation.
	Save bool
}

func NewSolveRequest(site, month string, class domain.EquipmentClass) SolveRequest {
	return SolveRequest{
		Site:        site,
		Month:       month,
		Class:       class,
		Assignments: map[string]string{},
		Configs:     map[string]domain.GroupConfig{},
	}
}

type SolveResponse struct {
	Site        *domain.Site
	Month       domain.Month
	Class       domain.EquipmentClass
	Result      *solver.SolveResult
	Diagnostics solver.Diagnostics
	// ConfigSource is the month the persisted configs were read from. It
	// differs from Month when configs were carried forward.
	ConfigSource domain.Month
	Assignments  map[string]string
	Saved        bool
}

// SolveAllResponse holds one response per equipment class.
type SolveAllResponse struct {
	Loader *SolveResponse
	Truck  *SolveResponse
}

type SolveErrorCode string

const (
	SolveErrNoTotals       SolveErrorCode = "NO_TOTALS"
	SolveErrUnknownSite    SolveErrorCode = "UNKNOWN_SITE"
	SolveErrInvalidRequest SolveErrorCode = "INVALID_REQUEST"
	SolveErrStructural     SolveErrorCode = "STRUCTURAL"
	SolveErrTimeout        SolveErrorCode = "TIMEOUT"
	SolveErrTotalsLocked   SolveErrorCode = "TOTALS_LOCKED"
	SolveErrInternal       SolveErrorCode = "INTERNAL_ERROR"
)

type SolveError struct {
	Code    SolveErrorCode
	Message string
	Err     error
}

func (e *SolveError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *SolveError) Unwrap() error {
	return e.Err
}
