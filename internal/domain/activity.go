package domain

import "time"

// ShiftActivity is one logged activity line from a worker's shift.
type ShiftActivity struct {
	ID          string
	SiteID      string
	EquipmentID string
	ShiftDate   time.Time
	Category    Category
	Kind        ActivityKind
	Units       int
	Operator    string
	Status      ShiftStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CountsTowardFactors reports whether the activity contributes units to the
// monthly aggregation. Rejected shifts never count.
func (a *ShiftActivity) CountsTowardFactors() bool {
	return a.Status != ShiftRejected && a.Units > 0
}
