package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDistribution_Empty(t *testing.T) {
	assert.Equal(t, Distribution{}, NewDistribution(nil))
}

func TestNewDistribution_Values(t *testing.T) {
	// GIVEN 1..10 in shuffled order
	values := []float64{7, 2, 10, 1, 5, 3, 9, 4, 8, 6}

	d := NewDistribution(values)

	assert.Equal(t, 10, d.Count)
	assert.Equal(t, 55.0, d.Sum)
	assert.Equal(t, 5.5, d.Mean)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 10.0, d.Max)
	assert.InDelta(t, 5.5, d.P50, 1e-9)
	assert.InDelta(t, 9.55, d.P95, 1e-9)
	assert.InDelta(t, 9.91, d.P99, 1e-9)
	// input order is preserved
	assert.Equal(t, 7.0, values[0])
}

func TestNewDistribution_Single(t *testing.T) {
	d := NewDistribution([]float64{4})
	assert.Equal(t, 4.0, d.P99)
	assert.Equal(t, 4.0, d.Min)
}

func TestInterpolatedQuantile_Bounds(t *testing.T) {
	sorted := []float64{2, 4, 8}
	assert.Equal(t, 2.0, interpolatedQuantile(sorted, 0))
	assert.Equal(t, 8.0, interpolatedQuantile(sorted, 1))
	assert.Equal(t, 4.0, interpolatedQuantile(sorted, 0.5))
	assert.InDelta(t, 6.0, interpolatedQuantile(sorted, 0.75), 1e-12)
	assert.Equal(t, 0.0, interpolatedQuantile(nil, 0.5))
}
