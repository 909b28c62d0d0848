package aggregate

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// MetaFunction selects how a set of values is reduced to one value. It is used both
// across runs (meta_function) and inside a window (window_function).
type MetaFunction string

const (
	MetaMean   MetaFunction = "mean"
	MetaMedian MetaFunction = "median"
)

// reducers is the exhaustive strategy table for MetaFunction.
var reducers = map[MetaFunction]func([]float64) float64{
	MetaMean:   mean,
	MetaMedian: median,
}

// IsValid reports whether f names a known reducer.
func (f MetaFunction) IsValid() bool {
	_, ok := reducers[f]
	return ok
}

// Reduce applies f to values. Panics on an unknown function: Config validation
// guarantees only known functions reach this point.
func (f MetaFunction) Reduce(values []float64) float64 {
	reduce, ok := reducers[f]
	if !ok {
		panic(fmt.Sprintf("MetaFunction.Reduce: unknown meta function %q", f))
	}
	return reduce(values)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// median is the statistical median: the middle element of the sorted values, or the
// mean of the two middle elements for an even count.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mode selects the cross-run combination semantics.
type Mode string

const (
	ModeTimeSeries           Mode = "time_series"
	ModeCumulative           Mode = "cumulative"
	ModeCumulativeTimeSeries Mode = "cumulative_time_series"
)

// combiner produces the consolidated result for one mode. The run set is non-empty.
type combiner func(runs []*Run, fn MetaFunction, windowSize int) *ConsolidatedSeries

// combiners is the exhaustive strategy table for Mode.
var combiners = map[Mode]combiner{
	ModeTimeSeries:           combineTimeSeries,
	ModeCumulative:           combineCumulative,
	ModeCumulativeTimeSeries: combineCumulativeTimeSeries,
}

// IsValid reports whether m names a known aggregation mode.
func (m Mode) IsValid() bool {
	_, ok := combiners[m]
	return ok
}

// Windowed reports whether the mode consumes windowed (processed) series.
// Cumulative mode reads raw series only.
func (m Mode) Windowed() bool {
	return m != ModeCumulative
}

// ConsolidatedSeries is the result of cross-run combination. Values holds the combined
// sequence for time_series and cumulative_time_series; Total holds the rounded scalar for
// cumulative mode. Never mutated after Combine returns.
type ConsolidatedSeries struct {
	Mode       Mode
	Values     []float64
	Cumulative []float64 // running totals (× window size in cumulative_time_series mode)
	Total      float64   // cumulative mode only, rounded to two decimals
	Timestamps []int64   // first aligned timestamp of each combined index (nil in cumulative mode)
}

// Len returns the number of combined values.
func (cs *ConsolidatedSeries) Len() int {
	return len(cs.Values)
}

// Combine runs cross-run meta-aggregation over runs according to cfg. Runs must already
// carry their processed series for windowed modes.
func Combine(runs []*Run, cfg *Config) (*ConsolidatedSeries, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: cannot combine an empty run set", ErrAlignment)
	}
	if !cfg.MetaFunction.IsValid() {
		return nil, fmt.Errorf("%w: meta_function %q is not usable for combination", ErrConfiguration, cfg.MetaFunction)
	}
	combine, ok := combiners[cfg.Mode]
	if !ok {
		return nil, fmt.Errorf("%w: unknown plot_type %q", ErrConfiguration, cfg.Mode)
	}
	return combine(runs, cfg.MetaFunction, cfg.WindowSize), nil
}

// combineIndexwise reduces the i-th element of every series for each index shared by
// all of them. The result length is the shortest series length.
func combineIndexwise(series [][]float64, fn MetaFunction) []float64 {
	shortest := math.MaxInt
	for _, s := range series {
		shortest = min(shortest, len(s))
	}
	combined := make([]float64, 0, shortest)
	column := make([]float64, len(series))
	for i := 0; i < shortest; i++ {
		for k, s := range series {
			column[k] = s[i]
		}
		combined = append(combined, fn.Reduce(column))
	}
	return combined
}

func processedSeries(runs []*Run) [][]float64 {
	series := make([][]float64, len(runs))
	for k, r := range runs {
		series[k] = r.Processed
	}
	return series
}

func combineTimeSeries(runs []*Run, fn MetaFunction, _ int) *ConsolidatedSeries {
	return &ConsolidatedSeries{
		Mode:   ModeTimeSeries,
		Values: combineIndexwise(processedSeries(runs), fn),
	}
}

func combineCumulative(runs []*Run, fn MetaFunction, _ int) *ConsolidatedSeries {
	series := make([][]float64, len(runs))
	for k, r := range runs {
		series[k] = r.Raw
	}
	running := RunningTotals(combineIndexwise(series, fn), 1)
	total := 0.0
	if len(running) > 0 {
		total = running[len(running)-1]
	}
	return &ConsolidatedSeries{
		Mode:       ModeCumulative,
		Cumulative: running,
		Total:      Round2(total),
	}
}

func combineCumulativeTimeSeries(runs []*Run, fn MetaFunction, windowSize int) *ConsolidatedSeries {
	values := combineIndexwise(processedSeries(runs), fn)
	return &ConsolidatedSeries{
		Mode:       ModeCumulativeTimeSeries,
		Values:     values,
		Cumulative: RunningTotals(values, windowSize),
	}
}

// RunningTotals returns the running sum of values, each multiplied by windowSize, which
// reconstructs an approximate cumulative total of the series before windowing.
func RunningTotals(values []float64, windowSize int) []float64 {
	totals := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		totals[i] = sum * float64(windowSize)
	}
	return totals
}

// Round2 rounds v to two decimal places. Exact halves round to the even neighbour.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
