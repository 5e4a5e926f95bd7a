package domain

import "time"

// GroupConfig is the operator-supplied metadata for one config group.
// Nil numeric fields are absent, which is not the same as zero.
type GroupConfig struct {
	Code     string
	Estimate *float64
	Min      *float64
	Max      *float64
	Lock     bool
}

// FactorRecord is the persisted state of a config group for a site month:
// its metadata plus the last solved factor.
type FactorRecord struct {
	SiteID string
	Class  EquipmentClass
	Month  Month
	GroupConfig
	Factor    *float64
	UpdatedAt time.Time
}

// FactorHistoryEntry is an append-only log line written on every save.
type FactorHistoryEntry struct {
	ID               string
	SiteID           string
	Class            EquipmentClass
	Month            Month
	Code             string
	Factor           float64
	ProductionUnits  int
	DevelopmentUnits int
	Locked           bool
	SolvedAt         time.Time
}
