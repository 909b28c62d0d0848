// Package aggregate provides the run-aggregation engine for multi-run datacenter
// simulation outputs.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - config.go: the validated aggregation config (metric, window, mode, meta function)
//   - window.go: per-run windowed smoothing of the raw series
//   - meta.go: cross-run combination under the three aggregation modes
//   - aggregator.go: the batch pass tying scaling, windowing and combination together
//
// # Architecture
//
// The aggregate package owns the data model (Run, AlignedAxis, ConsolidatedSeries) and the
// numeric semantics; collaborators live in sub-packages:
//   - aggregate/columnar/: parquet and CSV (timestamp, value) record codecs
//   - aggregate/loader/: run discovery and loading from a simulation output directory
//   - aggregate/export/: consolidated record and analysis log persistence
//   - aggregate/render/: HTML charts for each aggregation mode
//   - aggregate/migrate/: greedy migration selector over aligned location series
//   - aggregate/trace/: migration decision trace recording
//
// Modes and meta functions are closed enumerations resolved through lookup tables
// (combiners, reducers) that are validated once when the Config is built.
package aggregate
