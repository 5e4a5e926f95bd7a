package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SiteBundle is the top-level structure of a site import file. The same
// shape is accepted as JSON or YAML.
type SiteBundle struct {
	Site        SiteImport         `json:"site" yaml:"site"`
	Equipment   []EquipmentImport  `json:"equipment" yaml:"equipment"`
	Activities  []ActivityImport   `json:"activities,omitempty" yaml:"activities,omitempty"`
	Totals      []TotalsImport     `json:"totals,omitempty" yaml:"totals,omitempty"`
	Assignments []AssignmentImport `json:"assignments,omitempty" yaml:"assignments,omitempty"`
	Configs     []ConfigImport     `json:"configs,omitempty" yaml:"configs,omitempty"`
}

// SiteImport defines the site-level fields.
type SiteImport struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// EquipmentImport defines one loader or truck.
type EquipmentImport struct {
	ID    string `json:"id" yaml:"id"`
	Class string `json:"class" yaml:"class"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

// ActivityImport defines one shift activity line. Kind defaults to the
// unit activity of the equipment's class.
type ActivityImport struct {
	Equipment string `json:"equipment" yaml:"equipment"`
	Date      string `json:"date" yaml:"date"`
	Category  string `json:"category" yaml:"category"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Units     int    `json:"units" yaml:"units"`
	Operator  string `json:"operator,omitempty" yaml:"operator,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
}

// TotalsImport defines the reconciled tonnage for one month.
type TotalsImport struct {
	Month  string  `json:"month" yaml:"month"`
	Prod   float64 `json:"prod" yaml:"prod"`
	Dev    float64 `json:"dev" yaml:"dev"`
	Locked bool    `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// AssignmentImport maps equipment to a config group. The class comes from
// the equipment entry.
type AssignmentImport struct {
	Equipment string `json:"equipment" yaml:"equipment"`
	Code      string `json:"code" yaml:"code"`
}

// ConfigImport defines group metadata for one class and month.
type ConfigImport struct {
	Class    string   `json:"class" yaml:"class"`
	Month    string   `json:"month" yaml:"month"`
	Code     string   `json:"code" yaml:"code"`
	Estimate *float64 `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Lock     bool     `json:"lock,omitempty" yaml:"lock,omitempty"`
}

// LoadSiteBundle reads and parses a site import file. Files ending in
// .yaml or .yml are parsed as YAML, anything else as JSON.
func LoadSiteBundle(path string) (*SiteBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSiteBundle(data, filepath.Ext(path))
}

// ParseSiteBundle parses data in the format implied by ext.
func ParseSiteBundle(data []byte, ext string) (*SiteBundle, error) {
	var bundle SiteBundle
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &bundle, nil
}
