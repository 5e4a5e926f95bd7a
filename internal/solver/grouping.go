package solver

import (
	"sort"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// Group is a config group with its member unit counts summed.
type Group struct {
	domain.GroupConfig
	Members          []string
	ProductionUnits  int
	DevelopmentUnits int
}

// TotalUnits returns production plus development units.
func (g Group) TotalUnits() int {
	return g.ProductionUnits + g.DevelopmentUnits
}

// Grouping is the output of BuildGroups: groups ordered by code plus any
// notes about groups that were dropped.
type Grouping struct {
	Groups []Group
	Notes  []Note
}

// BuildGroups partitions items into config groups.
//
// Items without an assignment form a singleton group keyed by their own ID.
// Assignments that name equipment absent from items are kept as members
// with zero units. Codes without a config entry get an unbounded config.
// Groups whose members have no units at all are dropped with a note,
// as are configs that no equipment maps to.
func BuildGroups(items []domain.EquipmentItem, assignments map[string]string, configs map[string]domain.GroupConfig) (*Grouping, error) {
	for equipmentID, code := range assignments {
		if equipmentID == "" {
			return nil, structuralf("assignment map contains an empty equipment id")
		}
		if code == "" {
			return nil, structuralf("equipment %q is assigned to an empty config code", equipmentID)
		}
	}

	units := make(map[string]domain.EquipmentItem, len(items))
	for _, item := range items {
		if item.ID == "" {
			return nil, structuralf("equipment item with empty id")
		}
		if item.ProductionUnits < 0 || item.DevelopmentUnits < 0 {
			return nil, structuralf("equipment %q has negative unit counts", item.ID)
		}
		if _, dup := units[item.ID]; dup {
			return nil, structuralf("equipment %q appears more than once", item.ID)
		}
		units[item.ID] = item
	}

	members := make(map[string][]string)
	for _, item := range items {
		code := item.ID
		if assigned, ok := assignments[item.ID]; ok {
			code = assigned
		}
		members[code] = append(members[code], item.ID)
	}
	for equipmentID, code := range assignments {
		if _, known := units[equipmentID]; !known {
			members[code] = append(members[code], equipmentID)
		}
	}

	var notes noteSet
	codes := make([]string, 0, len(members))
	for code := range members {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	groups := make([]Group, 0, len(codes))
	for _, code := range codes {
		ids := members[code]
		sort.Strings(ids)

		cfg, ok := configs[code]
		if !ok {
			cfg = domain.GroupConfig{}
		}
		cfg.Code = code

		g := Group{GroupConfig: cfg, Members: ids}
		for _, id := range ids {
			item := units[id]
			g.ProductionUnits += item.ProductionUnits
			g.DevelopmentUnits += item.DevelopmentUnits
		}
		if g.TotalUnits() == 0 {
			notes.add(NoteZeroUnits, code, "no production or development units this month; group dropped")
			continue
		}
		groups = append(groups, g)
	}

	orphaned := make([]string, 0)
	for code := range configs {
		if _, ok := members[code]; !ok {
			orphaned = append(orphaned, code)
		}
	}
	sort.Strings(orphaned)
	for _, code := range orphaned {
		notes.add(NoteZeroUnits, code, "no equipment assigned; group dropped")
	}

	return &Grouping{Groups: groups, Notes: notes.items}, nil
}
