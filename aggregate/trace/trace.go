package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions records one entry per re-evaluation tick.
	TraceLevelDecisions TraceLevel = "decisions"
	// TraceLevelCandidates additionally records every location's value at each tick.
	TraceLevelCandidates TraceLevel = "candidates"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:       true,
	TraceLevelDecisions:  true,
	TraceLevelCandidates: true,
	"":                   true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// MigrationTrace collects decision records during one selector pass.
type MigrationTrace struct {
	Level       TraceLevel
	Granularity int
	Decisions   []DecisionRecord
}

// NewMigrationTrace creates a MigrationTrace ready for recording.
func NewMigrationTrace(level TraceLevel, granularity int) *MigrationTrace {
	return &MigrationTrace{
		Level:       level,
		Granularity: granularity,
		Decisions:   make([]DecisionRecord, 0),
	}
}

// Enabled reports whether records should be captured. Safe on a nil trace.
func (mt *MigrationTrace) Enabled() bool {
	return mt != nil && mt.Level != TraceLevelNone && mt.Level != ""
}

// WantsCandidates reports whether per-tick candidate values should be captured.
func (mt *MigrationTrace) WantsCandidates() bool {
	return mt != nil && mt.Level == TraceLevelCandidates
}

// RecordDecision appends a decision record.
func (mt *MigrationTrace) RecordDecision(record DecisionRecord) {
	mt.Decisions = append(mt.Decisions, record)
}
