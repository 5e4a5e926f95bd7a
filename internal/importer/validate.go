package importer

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

var validStatuses = map[string]bool{"submitted": true, "validated": true, "rejected": true}

// ValidateSiteBundle checks the bundle for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSiteBundle(b *SiteBundle) []error {
	var errs []error

	errs = append(errs, validateSite(&b.Site)...)

	classes := make(map[string]string)
	errs = append(errs, validateEquipment(b.Equipment, classes)...)
	errs = append(errs, validateActivities(b.Activities, classes)...)
	errs = append(errs, validateTotals(b.Totals)...)
	errs = append(errs, validateAssignments(b.Assignments, classes)...)
	errs = append(errs, validateConfigs(b.Configs)...)

	return errs
}

func validateSite(s *SiteImport) []error {
	var errs []error
	site := domain.Site{Code: s.Code}
	if err := site.ValidateCode(); err != nil {
		errs = append(errs, fmt.Errorf("site.code: %w", err))
	}
	if s.Name == "" {
		errs = append(errs, fmt.Errorf("site.name is required"))
	}
	return errs
}

func validateEquipment(items []EquipmentImport, classes map[string]string) []error {
	var errs []error
	for i, e := range items {
		prefix := fmt.Sprintf("equipment[%d]", i)
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
			continue
		}
		if _, dup := classes[e.ID]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", prefix, e.ID))
			continue
		}
		if !domain.ValidClasses[e.Class] {
			errs = append(errs, fmt.Errorf("%s.class: invalid value %q (expected loader or truck)", prefix, e.Class))
		}
		classes[e.ID] = e.Class
	}
	return errs
}

func validateActivities(lines []ActivityImport, classes map[string]string) []error {
	var errs []error
	for i, a := range lines {
		prefix := fmt.Sprintf("activities[%d]", i)
		if _, ok := classes[a.Equipment]; !ok {
			errs = append(errs, fmt.Errorf("%s.equipment: unknown equipment %q", prefix, a.Equipment))
		}
		if _, err := time.Parse("2006-01-02", a.Date); err != nil {
			errs = append(errs, fmt.Errorf("%s.date: invalid date format %q (expected YYYY-MM-DD)", prefix, a.Date))
		}
		if !domain.ValidCategories[a.Category] {
			errs = append(errs, fmt.Errorf("%s.category: invalid value %q", prefix, a.Category))
		}
		if a.Kind != "" && !domain.ValidActivityKinds[a.Kind] {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, a.Kind))
		}
		if a.Units < 0 {
			errs = append(errs, fmt.Errorf("%s.units must be non-negative", prefix))
		}
		if a.Status != "" && !validStatuses[a.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, a.Status))
		}
	}
	return errs
}

func validateTotals(totals []TotalsImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, t := range totals {
		prefix := fmt.Sprintf("totals[%d]", i)
		if _, err := domain.ParseMonth(t.Month); err != nil {
			errs = append(errs, fmt.Errorf("%s.month: %w", prefix, err))
		} else if seen[t.Month] {
			errs = append(errs, fmt.Errorf("%s: duplicate month %q", prefix, t.Month))
		}
		seen[t.Month] = true
		errs = append(errs, validateTonnes(prefix+".prod", t.Prod)...)
		errs = append(errs, validateTonnes(prefix+".dev", t.Dev)...)
	}
	return errs
}

func validateTonnes(field string, v float64) []error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return []error{fmt.Errorf("%s must be a non-negative number", field)}
	}
	return nil
}

func validateAssignments(assignments []AssignmentImport, classes map[string]string) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, a := range assignments {
		prefix := fmt.Sprintf("assignments[%d]", i)
		if _, ok := classes[a.Equipment]; !ok {
			errs = append(errs, fmt.Errorf("%s.equipment: unknown equipment %q", prefix, a.Equipment))
		}
		if a.Code == "" {
			errs = append(errs, fmt.Errorf("%s.code is required", prefix))
		}
		if seen[a.Equipment] {
			errs = append(errs, fmt.Errorf("%s: equipment %q assigned twice", prefix, a.Equipment))
		}
		seen[a.Equipment] = true
	}
	return errs
}

func validateConfigs(configs []ConfigImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, c := range configs {
		prefix := fmt.Sprintf("configs[%d]", i)
		if !domain.ValidClasses[c.Class] {
			errs = append(errs, fmt.Errorf("%s.class: invalid value %q", prefix, c.Class))
		}
		if _, err := domain.ParseMonth(c.Month); err != nil {
			errs = append(errs, fmt.Errorf("%s.month: %w", prefix, err))
		}
		if c.Code == "" {
			errs = append(errs, fmt.Errorf("%s.code is required", prefix))
		}
		key := c.Class + "/" + c.Month + "/" + c.Code
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate config %s", prefix, key))
		}
		seen[key] = true

		for _, f := range []struct {
			name string
			v    *float64
		}{{"estimate", c.Estimate}, {"min", c.Min}, {"max", c.Max}} {
			if f.v != nil && (math.IsNaN(*f.v) || *f.v < 0) {
				errs = append(errs, fmt.Errorf("%s.%s must be non-negative", prefix, f.name))
			}
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			errs = append(errs, fmt.Errorf("%s: min (%g) must be <= max (%g)", prefix, *c.Min, *c.Max))
		}
	}
	return errs
}
