package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFlag_Set(t *testing.T) {
	f := newGroupFlag()
	require.NoError(t, f.Set("BIG:estimate=3.1,min=2.5,max=4"))
	require.NoError(t, f.Set("LHD-03:lock,est=2"))

	big := f.configs["BIG"]
	assert.Equal(t, "BIG", big.Code)
	require.NotNil(t, big.Estimate)
	assert.Equal(t, 3.1, *big.Estimate)
	assert.Equal(t, 2.5, *big.Min)
	assert.Equal(t, 4.0, *big.Max)
	assert.False(t, big.Lock)

	lhd := f.configs["LHD-03"]
	assert.True(t, lhd.Lock)
	assert.Equal(t, 2.0, *lhd.Estimate)
	assert.Nil(t, lhd.Min)

	assert.Equal(t, "BIG:estimate=3.1,min=2.5,max=4 LHD-03:estimate=2,lock", f.String())
	assert.Equal(t, "group", f.Type())
}

func TestConfigFlag_RepeatedCodeMerges(t *testing.T) {
	f := newGroupFlag()
	require.NoError(t, f.Set("BIG:min=1"))
	require.NoError(t, f.Set("BIG:max=5,lock=true"))
	require.NoError(t, f.Set("BIG:lock=false"))

	big := f.configs["BIG"]
	assert.Equal(t, 1.0, *big.Min)
	assert.Equal(t, 5.0, *big.Max)
	assert.False(t, big.Lock)
}

func TestConfigFlag_EmptySpecKeepsCode(t *testing.T) {
	f := newGroupFlag()
	require.NoError(t, f.Set("BIG:"))
	assert.Contains(t, f.configs, "BIG")
}

func TestConfigFlag_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"no colon", "BIG", "expected CODE:"},
		{"empty code", ":min=1", "expected CODE:"},
		{"bad number", "BIG:min=low", "must be a number"},
		{"missing value", "BIG:max", "needs a value"},
		{"unknown key", "BIG:scale=2", "unknown key"},
		{"bad lock", "BIG:lock=maybe", "lock must be true or false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newGroupFlag().Set(tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseShiftDate(t *testing.T) {
	_, err := parseShiftDate("04/03/2025", fixedNow)
	require.Error(t, err)

	d, err := parseShiftDate("today", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", d.Format(dateLayout))

	d, err = parseShiftDate("2025-02-28", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 28, d.Day())
}

func TestParseKindAndCategory(t *testing.T) {
	k, err := parseKind("")
	require.NoError(t, err)
	assert.Empty(t, k)

	_, err = parseKind("blasting")
	require.Error(t, err)

	c, err := parseCategory(" Development ")
	require.NoError(t, err)
	assert.EqualValues(t, "development", c)
}

var fixedNow = time.Date(2025, 3, 4, 18, 30, 0, 0, time.UTC)
