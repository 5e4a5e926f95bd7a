package solver

import (
	"testing"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroups_UnassignedItemsAreSingletons(t *testing.T) {
	items := []domain.EquipmentItem{
		{ID: "T-02", ProductionUnits: 5},
		{ID: "T-01", DevelopmentUnits: 3},
	}

	g, err := BuildGroups(items, nil, nil)
	require.NoError(t, err)
	require.Len(t, g.Groups, 2)

	assert.Equal(t, "T-01", g.Groups[0].Code)
	assert.Equal(t, []string{"T-01"}, g.Groups[0].Members)
	assert.Equal(t, 3, g.Groups[0].DevelopmentUnits)
	assert.Equal(t, "T-02", g.Groups[1].Code)
	assert.Empty(t, g.Notes)
}

func TestBuildGroups_SumsMembersAndKeepsConfig(t *testing.T) {
	items := []domain.EquipmentItem{
		{ID: "LHD-01", ProductionUnits: 10, DevelopmentUnits: 2},
		{ID: "LHD-02", ProductionUnits: 7, DevelopmentUnits: 1},
		{ID: "LHD-03", ProductionUnits: 4},
	}
	assignments := map[string]string{"LHD-01": "BIG", "LHD-02": "BIG"}
	configs := map[string]domain.GroupConfig{
		"BIG": {Code: "BIG", Estimate: f64(4.5), Max: f64(6)},
	}

	g, err := BuildGroups(items, assignments, configs)
	require.NoError(t, err)
	require.Len(t, g.Groups, 2)

	big := g.Groups[0]
	assert.Equal(t, "BIG", big.Code)
	assert.Equal(t, []string{"LHD-01", "LHD-02"}, big.Members)
	assert.Equal(t, 17, big.ProductionUnits)
	assert.Equal(t, 3, big.DevelopmentUnits)
	require.NotNil(t, big.Estimate)
	assert.Equal(t, 4.5, *big.Estimate)
	assert.Equal(t, 6.0, *big.Max)
	assert.Nil(t, big.Min)

	assert.Equal(t, "LHD-03", g.Groups[1].Code)
	assert.Nil(t, g.Groups[1].Estimate)
}

func TestBuildGroups_ConfigCodeTakenFromKey(t *testing.T) {
	items := []domain.EquipmentItem{{ID: "T-1", ProductionUnits: 1}}
	configs := map[string]domain.GroupConfig{"T-1": {Code: "stale", Lock: true, Estimate: f64(2)}}

	g, err := BuildGroups(items, nil, configs)
	require.NoError(t, err)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, "T-1", g.Groups[0].Code)
	assert.True(t, g.Groups[0].Lock)
}

func TestBuildGroups_DropsEmptyGroupsWithNotes(t *testing.T) {
	items := []domain.EquipmentItem{
		{ID: "T-1", ProductionUnits: 4},
		{ID: "T-2"},
	}
	assignments := map[string]string{"T-9": "GHOST"}
	configs := map[string]domain.GroupConfig{"ORPHAN": {Code: "ORPHAN"}}

	g, err := BuildGroups(items, assignments, configs)
	require.NoError(t, err)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, "T-1", g.Groups[0].Code)

	var dropped []string
	for _, n := range g.Notes {
		assert.Equal(t, NoteZeroUnits, n.Code)
		dropped = append(dropped, n.Group)
	}
	assert.Equal(t, []string{"GHOST", "T-2", "ORPHAN"}, dropped)
}

func TestBuildGroups_AssignedEquipmentWithoutActivityIsMember(t *testing.T) {
	items := []domain.EquipmentItem{{ID: "T-1", ProductionUnits: 4}}
	assignments := map[string]string{"T-1": "HAUL", "T-5": "HAUL"}

	g, err := BuildGroups(items, assignments, nil)
	require.NoError(t, err)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, []string{"T-1", "T-5"}, g.Groups[0].Members)
	assert.Equal(t, 4, g.Groups[0].ProductionUnits)
}

func TestBuildGroups_StructuralErrors(t *testing.T) {
	tests := []struct {
		name        string
		items       []domain.EquipmentItem
		assignments map[string]string
	}{
		{
			name:        "empty equipment id in assignments",
			items:       []domain.EquipmentItem{{ID: "T-1", ProductionUnits: 1}},
			assignments: map[string]string{"": "A"},
		},
		{
			name:        "empty code in assignments",
			items:       []domain.EquipmentItem{{ID: "T-1", ProductionUnits: 1}},
			assignments: map[string]string{"T-1": ""},
		},
		{
			name:  "empty item id",
			items: []domain.EquipmentItem{{ProductionUnits: 1}},
		},
		{
			name:  "negative units",
			items: []domain.EquipmentItem{{ID: "T-1", ProductionUnits: -3}},
		},
		{
			name: "duplicate item",
			items: []domain.EquipmentItem{
				{ID: "T-1", ProductionUnits: 1},
				{ID: "T-1", DevelopmentUnits: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := BuildGroups(tt.items, tt.assignments, nil)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrStructural)
		})
	}
}

func TestBuildGroups_DoesNotMutateInputs(t *testing.T) {
	items := []domain.EquipmentItem{
		{ID: "B", ProductionUnits: 1},
		{ID: "A", ProductionUnits: 2},
	}
	assignments := map[string]string{"B": "X", "A": "X"}

	_, err := BuildGroups(items, assignments, nil)
	require.NoError(t, err)

	assert.Equal(t, "B", items[0].ID)
	assert.Equal(t, 1, items[0].ProductionUnits)
	assert.Len(t, assignments, 2)
}
