package aggregate

import (
	"fmt"
	"math"
)

// RunMetadata is optional experiment context recorded next to a run's output.
type RunMetadata struct {
	Name               string   `json:"name"`
	Topologies         []string `json:"topologies"`
	Workloads          []string `json:"workloads"`
	AllocationPolicies []string `json:"allocationPolicies"`
	CarbonTracePaths   []string `json:"carbonTracePaths"`
}

// Run is one simulation run's series for a single metric.
//
// Raw and Timestamps are fixed once loaded. Processed, Cumulative and CumulativeSeries are
// written exactly once per aggregation pass by the Aggregator that owns the run.
type Run struct {
	ID         int
	Path       string // resolved record file the run was loaded from
	Timestamps []int64
	Raw        []float64

	Processed        []float64
	Cumulative       float64
	CumulativeSeries []float64

	Meta *RunMetadata // nil when the run carries no metadata
}

// Label returns the display label of the run.
func (r *Run) Label() string {
	return fmt.Sprintf("Model %d", r.ID)
}

// AlignedAxis is the timestamp axis shared by all runs of a batch. Its length is the
// shortest native axis across runs; longer runs are truncated, never extrapolated.
type AlignedAxis struct {
	Timestamps []int64
}

// Len returns the number of aligned samples.
func (a *AlignedAxis) Len() int {
	return len(a.Timestamps)
}

// Align builds the shared axis for runs. The axis is taken from the run with the
// shortest timestamp axis (first such run in load order).
func Align(runs []*Run) (*AlignedAxis, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs to align", ErrAlignment)
	}
	shortest := runs[0]
	for _, r := range runs[1:] {
		if len(r.Timestamps) < len(shortest.Timestamps) {
			shortest = r
		}
	}
	return &AlignedAxis{Timestamps: shortest.Timestamps[:len(shortest.Timestamps):len(shortest.Timestamps)]}, nil
}

// MinRawLen returns the shortest raw series length across runs, or 0 for no runs.
func MinRawLen(runs []*Run) int {
	if len(runs) == 0 {
		return 0
	}
	shortest := math.MaxInt
	for _, r := range runs {
		shortest = min(shortest, len(r.Raw))
	}
	return shortest
}
