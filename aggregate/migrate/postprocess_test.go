package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlarge-research/m3sa/aggregate"
)

func TestNewPipeline_Order(t *testing.T) {
	scaleFirst, err := NewPipeline(ScaleFirst, 2982.0/150, 1e6)
	require.NoError(t, err)
	assert.Equal(t, Pipeline{Scale(2982.0 / 150), Convert(1e6)}, scaleFirst)

	convertFirst, err := NewPipeline(ConvertFirst, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, Pipeline{Convert(1000), Scale(2)}, convertFirst)
}

func TestNewPipeline_OmitsUnsetSteps(t *testing.T) {
	p, err := NewPipeline(ScaleFirst, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, Pipeline{Convert(1000)}, p)

	empty, err := NewPipeline("", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.5, empty.Apply(7.5))
}

func TestNewPipeline_Invalid(t *testing.T) {
	_, err := NewPipeline("sideways", 1, 1)
	assert.ErrorIs(t, err, aggregate.ErrConfiguration)

	_, err = NewPipeline(ScaleFirst, -1, 1)
	assert.ErrorIs(t, err, aggregate.ErrConfiguration)
}

func TestPipeline_Apply(t *testing.T) {
	p := Pipeline{Scale(3), Convert(2)}
	assert.Equal(t, 15.0, p.Apply(10))
	assert.Equal(t, []float64{1.5, 3}, p.ApplySeries([]float64{1, 2}))
}

func TestTotals_LocationsThenResults(t *testing.T) {
	// GIVEN scenario B and its granularity-1 result
	res, err := Select(scenarioB(), 1)
	require.NoError(t, err)

	// WHEN totals are converted to kilo-units
	totals, err := Totals(scenarioB(), []*Result{res}, Pipeline{Convert(1000)})
	require.NoError(t, err)

	// THEN every total is post-processed and rounded
	assert.Equal(t, []Total{
		{Name: "A", Value: 0.02},
		{Name: "B", Value: 0.01},
		{Name: "migrated-g1", Value: 0.01},
	}, totals)
}
