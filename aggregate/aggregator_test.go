package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(mode Mode, w int) *Config {
	cfg := defaultConfig()
	cfg.Metric = "power_draw"
	cfg.MetaModel = true
	cfg.MetaFunction = MetaMean
	cfg.Mode = mode
	cfg.WindowSize = w
	return &cfg
}

func TestAggregator_TimeSeries_EndToEnd(t *testing.T) {
	// GIVEN three runs of four samples each
	runs := runsFrom([]float64{2, 4, 6, 8}, []float64{1, 1, 1, 1}, []float64{5, 5, 0, 0})
	agg, err := NewAggregator(newTestConfig(ModeTimeSeries, 2), runs)
	require.NoError(t, err)

	// WHEN processed and consolidated
	require.NoError(t, agg.Process(context.Background()))
	cs, err := agg.Consolidate()
	require.NoError(t, err)

	// THEN each run is windowed and the consolidated series carries window timestamps
	assert.Equal(t, []float64{3, 7}, runs[0].Processed)
	assert.Equal(t, []float64{5, 0}, runs[2].Processed)
	assert.Nil(t, runs[0].CumulativeSeries)
	require.Equal(t, 2, cs.Len())
	assert.Equal(t, []int64{0, 600_000}, cs.Timestamps)
	assert.Equal(t, 4, agg.SampleCount())
}

func TestAggregator_Cumulative_SetsPerRunTotals(t *testing.T) {
	runs := runsFrom([]float64{1.004, 2}, []float64{10, 10, 10})
	agg, err := NewAggregator(newTestConfig(ModeCumulative, 5), runs)
	require.NoError(t, err)

	require.NoError(t, agg.Process(context.Background()))
	cs, err := agg.Consolidate()
	require.NoError(t, err)

	// per-run totals cover the whole raw series; windowing is skipped
	assert.Equal(t, 3.0, runs[0].Cumulative)
	assert.Equal(t, 30.0, runs[1].Cumulative)
	assert.Nil(t, runs[0].Processed)
	// the meta-model total only covers the shared prefix: mean(1.004,10)+mean(2,10)
	assert.Equal(t, 11.5, cs.Total)
	assert.Nil(t, cs.Timestamps)
}

func TestAggregator_CumulativeTimeSeries_SetsPerRunRunningTotals(t *testing.T) {
	runs := runsFrom([]float64{1, 2, 3, 4, 5}, []float64{3, 4, 5, 6})
	agg, err := NewAggregator(newTestConfig(ModeCumulativeTimeSeries, 2), runs)
	require.NoError(t, err)

	require.NoError(t, agg.Process(context.Background()))
	cs, err := agg.Consolidate()
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 10, 20}, runs[0].CumulativeSeries)
	assert.Equal(t, []float64{7, 18}, runs[1].CumulativeSeries)
	assert.Equal(t, []float64{5, 14}, cs.Cumulative)
	assert.Equal(t, []int64{0, 600_000}, cs.Timestamps)
}

func TestAggregator_ProcessTwice_Fails(t *testing.T) {
	agg, err := NewAggregator(newTestConfig(ModeTimeSeries, 1), runsFrom([]float64{1}))
	require.NoError(t, err)
	require.NoError(t, agg.Process(context.Background()))
	assert.Error(t, agg.Process(context.Background()))
}

func TestAggregator_ConsolidateBeforeProcess_Fails(t *testing.T) {
	agg, err := NewAggregator(newTestConfig(ModeTimeSeries, 1), runsFrom([]float64{1}))
	require.NoError(t, err)
	_, err = agg.Consolidate()
	assert.Error(t, err)
}

func TestAggregator_CancelledContext_Fails(t *testing.T) {
	agg, err := NewAggregator(newTestConfig(ModeTimeSeries, 1), runsFrom([]float64{1}, []float64{2}))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, agg.Process(ctx), context.Canceled)
}

func TestNewAggregator_Errors(t *testing.T) {
	_, err := NewAggregator(nil, runsFrom([]float64{1}))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewAggregator(newTestConfig(ModeTimeSeries, 1), nil)
	assert.ErrorIs(t, err, ErrAlignment)
}

func TestAggregator_Summaries(t *testing.T) {
	agg, err := NewAggregator(newTestConfig(ModeTimeSeries, 1), runsFrom([]float64{1, 3}, []float64{5}))
	require.NoError(t, err)
	s := agg.Summaries()
	require.Len(t, s, 2)
	assert.Equal(t, 2.0, s[0].Mean)
	assert.Equal(t, 1, s[1].Count)
}

func TestAggregator_Run_MetaModelDisabled_ReturnsNilSeries(t *testing.T) {
	cfg := newTestConfig(ModeTimeSeries, 2)
	cfg.MetaModel = false
	runs := runsFrom([]float64{1, 3}, []float64{5, 7})
	agg, err := NewAggregator(cfg, runs)
	require.NoError(t, err)

	cs, err := agg.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cs)
	assert.Equal(t, []float64{2}, runs[0].Processed)
}

func TestAggregator_Run_MetaModelEnabled(t *testing.T) {
	runs := runsFrom([]float64{10, 10}, []float64{10, 10})
	agg, err := NewAggregator(newTestConfig(ModeCumulative, 1), runs)
	require.NoError(t, err)

	cs, err := agg.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, 20.0, cs.Total)
	assert.Equal(t, 20.0, runs[0].Cumulative)
}
