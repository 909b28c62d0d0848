package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnit_KnownMagnitudes(t *testing.T) {
	tests := []struct {
		target    string
		magnitude int
		display   string
		divisor   float64
	}{
		{"W", 3, "kW", 1e3},
		{"W", 6, "MW", 1e6},
		{"Wh", 9, "GWh", 1e9},
		{"gCO2", 9, "GgCO2", 1e9},
		{"W", 1, "daW", 10},
		{"W", -3, "mW", 1e-3},
		{"s", -9, "ns", 1e-9},
		{"W", 0, "W", 1},
	}
	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			u := ResolveUnit(tt.target, tt.magnitude)
			assert.Equal(t, tt.display, u.Display)
			assert.InDelta(t, tt.divisor, u.Divisor, tt.divisor*1e-12)
		})
	}
}

func TestResolveUnit_UnknownMagnitude_FallsBackToBareUnit(t *testing.T) {
	for _, m := range []int{2, 4, -1, 12, 15, -12} {
		u := ResolveUnit("W", m)
		assert.Equal(t, Unit{Display: "W", Divisor: 1}, u, "magnitude %d", m)
	}
}

func TestUnit_Scale_DividesInPlace(t *testing.T) {
	// GIVEN raw watts and a kW unit
	raw := []float64{1500, 250, 0}
	u := ResolveUnit("W", 3)

	// WHEN scaled
	u.Scale(raw)

	// THEN every sample is divided by 1000
	assert.Equal(t, []float64{1.5, 0.25, 0}, raw)
}

func TestUnit_Scale_ZeroValueUnitIsNoop(t *testing.T) {
	raw := []float64{3, 4}
	Unit{}.Scale(raw)
	assert.Equal(t, []float64{3, 4}, raw)
}

func TestConfig_Unit_DefaultMagnitudeDividesByTen(t *testing.T) {
	// GIVEN a document that leaves unit_scaling_magnitude unset
	cfg, err := NewConfig([]byte(`{"metric": "power_draw", "current_unit": "W"}`))
	require.NoError(t, err)

	// WHEN the unit is resolved
	u := cfg.Unit()

	// THEN the default magnitude of one is in the table
	assert.Equal(t, "daW", u.Display)
	assert.InDelta(t, 10, u.Divisor, 1e-12)

	raw := []float64{250, 30}
	u.Scale(raw)
	assert.InDeltaSlice(t, []float64{25, 3}, raw, 1e-12)
}

func TestResolveUnit_ZeroMagnitudeKeepsUnit(t *testing.T) {
	assert.Equal(t, Unit{Display: "W", Divisor: 1}, ResolveUnit("W", 0))
}

func TestScaleRuns_ScalesEveryRun(t *testing.T) {
	runs := []*Run{{Raw: []float64{2000}}, {Raw: []float64{500, 1000}}}
	ScaleRuns(runs, ResolveUnit("W", 3))
	assert.Equal(t, []float64{2}, runs[0].Raw)
	assert.Equal(t, []float64{0.5, 1}, runs[1].Raw)
}
