package trace

// TraceSummary aggregates statistics from a MigrationTrace.
type TraceSummary struct {
	TotalDecisions     int
	Migrations         int
	MeanSaving         float64 // over migrating decisions only
	MaxSaving          float64
	UniqueLocations    int
	Dwell              map[string]int // location → samples spent there
	SwitchDistribution map[string]int // location → migrations into it
}

// Summarize computes aggregate statistics from a MigrationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(mt *MigrationTrace) *TraceSummary {
	summary := &TraceSummary{
		Dwell:              make(map[string]int),
		SwitchDistribution: make(map[string]int),
	}
	if mt == nil {
		return summary
	}

	summary.TotalDecisions = len(mt.Decisions)
	totalSaving := 0.0
	for _, d := range mt.Decisions {
		summary.Dwell[d.Chosen] += d.Span
		if !d.Migrated {
			continue
		}
		summary.Migrations++
		summary.SwitchDistribution[d.Chosen]++
		totalSaving += d.Saving
		if d.Saving > summary.MaxSaving {
			summary.MaxSaving = d.Saving
		}
	}
	if summary.Migrations > 0 {
		summary.MeanSaving = totalSaving / float64(summary.Migrations)
	}
	summary.UniqueLocations = len(summary.Dwell)
	return summary
}
