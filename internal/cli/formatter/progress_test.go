package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderShareBar(t *testing.T) {
	pct := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		pct     *float64
		width   int
		filled  int
		percent string
	}{
		{"zero", pct(0), 10, 0, "  0%"},
		{"half", pct(50), 10, 5, " 50%"},
		{"full", pct(100), 10, 10, "100%"},
		{"over 100 clamps", pct(140), 4, 4, "100%"},
		{"negative clamps", pct(-20), 4, 0, "  0%"},
		{"tiny width clamps to 2", pct(50), 1, 1, " 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderShareBar(tt.pct, tt.width))
			assert.Contains(t, got, tt.percent)
			assert.Equal(t, tt.filled, countRunes(got, filledBlock))
		})
	}
}

func TestRenderShareBar_Nil(t *testing.T) {
	got := stripANSI(RenderShareBar(nil, 6))
	assert.Contains(t, got, "n/a")
	assert.Equal(t, 0, countRunes(got, filledBlock))
	assert.Equal(t, 6, countRunes(got, emptyBlock))
}
