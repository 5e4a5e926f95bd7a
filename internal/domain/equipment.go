package domain

import "time"

// Equipment is a registered loader or truck at a site. ID is the
// operator-facing fleet number (e.g. "LHD-07") and is unique per site.
type Equipment struct {
	SiteID    string
	ID        string
	Class     EquipmentClass
	Name      string
	CreatedAt time.Time
}

// EquipmentItem carries one machine's unit counts for a month.
type EquipmentItem struct {
	ID               string
	ProductionUnits  int
	DevelopmentUnits int
}

// TotalUnits returns production plus development units.
func (e EquipmentItem) TotalUnits() int {
	return e.ProductionUnits + e.DevelopmentUnits
}

// Assignment maps a piece of equipment to a config group code.
type Assignment struct {
	SiteID      string
	Class       EquipmentClass
	EquipmentID string
	ConfigCode  string
	UpdatedAt   time.Time
}
