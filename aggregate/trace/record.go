// Package trace records the decisions of the greedy migration selector for later analysis.
// It holds plain data only and does not depend on the selector.
package trace

// Candidate is one location's value at a re-evaluation tick.
type Candidate struct {
	Location string
	Value    float64
}

// DecisionRecord captures one re-evaluation tick of the selector.
type DecisionRecord struct {
	Index      int    // sample index of the tick
	Timestamp  int64  // aligned timestamp of the tick, 0 when none was supplied
	Previous   string // location before the tick; empty for the starting assignment
	Chosen     string
	Migrated   bool
	Span       int         // samples this decision governs, up to the next tick or the end
	Saving     float64     // value at Previous minus value at Chosen; 0 when staying
	Candidates []Candidate // every location at the tick, in load order (nil unless requested)
}
