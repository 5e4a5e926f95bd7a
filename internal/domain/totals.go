package domain

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// Month is a calendar month in YYYY-MM form.
type Month string

// ParseMonth validates s as YYYY-MM and returns it as a Month.
func ParseMonth(s string) (Month, error) {
	if _, err := time.Parse(monthLayout, s); err != nil {
		return "", fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return Month(s), nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format(monthLayout))
}

// Bounds returns the first day of the month and the first day of the next.
func (m Month) Bounds() (time.Time, time.Time, error) {
	start, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", string(m))
	}
	return start, start.AddDate(0, 1, 0), nil
}

func (m Month) String() string { return string(m) }

// ReconciledTotals are the independently measured tonnages for a site month.
type ReconciledTotals struct {
	SiteID     string
	Month      Month
	ProdTonnes float64
	DevTonnes  float64
	Locked     bool
	UpdatedAt  time.Time
}

// Validate rejects negative tonnages.
func (t *ReconciledTotals) Validate() error {
	if t.ProdTonnes < 0 {
		return fmt.Errorf("production tonnes must be non-negative (got %g)", t.ProdTonnes)
	}
	if t.DevTonnes < 0 {
		return fmt.Errorf("development tonnes must be non-negative (got %g)", t.DevTonnes)
	}
	return nil
}
