package domain

// EquipmentClass selects which unit factor is being reconciled.
// Loaders are measured in buckets, trucks in loads.
type EquipmentClass string

const (
	ClassLoader EquipmentClass = "loader"
	ClassTruck  EquipmentClass = "truck"
)

// AllClasses lists every equipment class in display order.
var AllClasses = []EquipmentClass{ClassLoader, ClassTruck}

// UnitLabel returns the unit counted for this class ("bucket" or "load").
func (c EquipmentClass) UnitLabel() string {
	switch c {
	case ClassLoader:
		return "bucket"
	case ClassTruck:
		return "load"
	default:
		return "unit"
	}
}

// UnitActivity returns the activity kind whose units feed this class's factor.
func (c EquipmentClass) UnitActivity() ActivityKind {
	if c == ClassTruck {
		return ActivityHauling
	}
	return ActivityLoading
}

// Category splits production tonnage from development tonnage.
type Category string

const (
	CategoryProduction  Category = "production"
	CategoryDevelopment Category = "development"
)

type ActivityKind string

const (
	ActivityHauling  ActivityKind = "hauling"
	ActivityLoading  ActivityKind = "loading"
	ActivityDrilling ActivityKind = "drilling"
	ActivityCharging ActivityKind = "charging"
)

type ShiftStatus string

const (
	ShiftSubmitted ShiftStatus = "submitted"
	ShiftValidated ShiftStatus = "validated"
	ShiftRejected  ShiftStatus = "rejected"
)

// ValidClasses is the canonical set of accepted equipment class strings.
var ValidClasses = map[string]bool{
	"loader": true, "truck": true,
}

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[string]bool{
	"production": true, "development": true,
}

// ValidActivityKinds is the canonical set of accepted activity kind strings.
var ValidActivityKinds = map[string]bool{
	"hauling": true, "loading": true, "drilling": true, "charging": true,
}
