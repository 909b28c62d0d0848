// Package loader discovers simulation runs under an output directory and loads one metric
// from each into aggregate.Run values.
//
// Layout:
//
//	<output-dir>/raw-output/<run-folder>/seed=<seed>/<data-file>.parquet   (or .csv)
//	<output-dir>/trackr.json                                               (optional)
//
// Run folders are ordered by name and numbered from zero in that order. The metamodel
// folder holds consolidated output and is never loaded as a run.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/atlarge-research/m3sa/aggregate"
	"github.com/atlarge-research/m3sa/aggregate/columnar"
)

const (
	// RawOutputDir is the directory under the output root holding one folder per run.
	RawOutputDir = "raw-output"
	// MetaModelDir is the run-folder name reserved for consolidated output.
	MetaModelDir = "metamodel"
)

// Source locates one run's record file.
type Source struct {
	ID   int
	Name string // run folder name, or the file name for explicit paths
	File string
}

// SeedDir returns the per-seed directory name, e.g. "seed=0".
func SeedDir(seed int) string {
	return "seed=" + strconv.Itoa(seed)
}

// Discover lists the runs under outputDir for the given seed. For every run folder the
// parquet record file is preferred; a CSV file of the same base name is used when no
// parquet file exists.
func Discover(outputDir string, seed int, dataFile string) ([]Source, error) {
	root := filepath.Join(outputDir, RawOutputDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: listing runs in %s: %w", aggregate.ErrIO, root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != MetaModelDir {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no run folders in %s", aggregate.ErrAlignment, root)
	}

	sources := make([]Source, len(names))
	for i, name := range names {
		sources[i] = Source{
			ID:   i,
			Name: name,
			File: resolveRecordFile(filepath.Join(root, name, SeedDir(seed)), dataFile),
		}
	}
	return sources, nil
}

// resolveRecordFile returns the parquet path unless only a CSV file exists. A missing
// file is reported when the run is loaded.
func resolveRecordFile(dir, dataFile string) string {
	parquetPath := filepath.Join(dir, dataFile+".parquet")
	if _, err := os.Stat(parquetPath); err == nil {
		return parquetPath
	}
	csvPath := filepath.Join(dir, dataFile+".csv")
	if _, err := os.Stat(csvPath); err == nil {
		return csvPath
	}
	return parquetPath
}

// FromPaths builds sources for explicitly named record files, numbered in argument order.
func FromPaths(paths ...string) []Source {
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = Source{ID: i, Name: filepath.Base(p), File: p}
	}
	return sources
}

// Load discovers and loads every run under outputDir for cfg, scales it into the
// configured unit and attaches trackr.json metadata when present.
func Load(ctx context.Context, outputDir string, cfg *aggregate.Config) ([]*aggregate.Run, error) {
	sources, err := Discover(outputDir, cfg.Seed, cfg.DataFile)
	if err != nil {
		return nil, err
	}
	runs, err := LoadSources(ctx, sources, cfg.Metric)
	if err != nil {
		return nil, err
	}
	aggregate.ScaleRuns(runs, cfg.Unit())

	meta, err := ReadMetadata(outputDir)
	if err != nil {
		logrus.Warnf("ignoring run metadata: %v", err)
	}
	AttachMetadata(runs, meta)
	return runs, nil
}

// LoadSources reads metric from every source concurrently. Runs are returned in source
// order. Raw values are left in the units stored in the files.
func LoadSources(ctx context.Context, sources []Source, metric string) ([]*aggregate.Run, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no runs to load", aggregate.ErrAlignment)
	}
	runs := make([]*aggregate.Run, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run, err := LoadRun(src, metric)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// LoadRun reads metric from one record file. Rows sharing a timestamp (one per host) are
// summed; the resulting series is ordered by ascending timestamp.
func LoadRun(src Source, metric string) (*aggregate.Run, error) {
	table, err := columnar.Read(src.File, metric)
	if errors.Is(err, columnar.ErrMissingColumn) {
		return nil, fmt.Errorf("%w: run %d (%s): %w", aggregate.ErrAlignment, src.ID, src.Name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: run %d: reading %s: %w", aggregate.ErrIO, src.ID, src.File, err)
	}
	values, _ := table.Column(metric)
	timestamps, raw := GroupByTimestamp(table.Timestamps, values)
	logrus.Debugf("loaded run %d from %s: %d rows, %d timestamps", src.ID, src.File, table.Len(), len(timestamps))

	return &aggregate.Run{
		ID:         src.ID,
		Path:       src.File,
		Timestamps: timestamps,
		Raw:        raw,
	}, nil
}

// GroupByTimestamp sums values that share a timestamp and returns the distinct
// timestamps in ascending order with their sums.
func GroupByTimestamp(timestamps []int64, values []float64) ([]int64, []float64) {
	sums := make(map[int64]float64, len(timestamps))
	for i, ts := range timestamps {
		sums[ts] += values[i]
	}
	keys := make([]int64, 0, len(sums))
	for ts := range sums {
		keys = append(keys, ts)
	}
	slices.Sort(keys)
	out := make([]float64, len(keys))
	for i, ts := range keys {
		out[i] = sums[ts]
	}
	return keys, out
}
