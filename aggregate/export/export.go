// Package export persists aggregation results: the consolidated meta-model record and the
// append-only analysis log kept next to the plots.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/atlarge-research/m3sa/aggregate"
	"github.com/atlarge-research/m3sa/aggregate/columnar"
	"github.com/atlarge-research/m3sa/aggregate/loader"
)

// consolidatedSeed is the seed folder the meta-model record is always written under.
const consolidatedSeed = 0

// ConsolidatedPath returns where the consolidated record for metric is stored.
func ConsolidatedPath(outputDir, metric string) string {
	return filepath.Join(outputDir, loader.RawOutputDir, loader.MetaModelDir, loader.SeedDir(consolidatedSeed), metric+".parquet")
}

// ConsolidatedTable lays cs out as a (timestamp, metric) table.
//
// Windowed modes write one row per combined value, keyed by the first aligned timestamp of
// its window. Cumulative mode writes a single row: the last aligned timestamp and the
// rounded total.
func ConsolidatedTable(metric string, axis *aggregate.AlignedAxis, cs *aggregate.ConsolidatedSeries) *columnar.Table {
	if cs.Mode == aggregate.ModeCumulative {
		var last int64
		if axis.Len() > 0 {
			last = axis.Timestamps[axis.Len()-1]
		}
		return &columnar.Table{
			Timestamps: []int64{last},
			Columns:    []columnar.Column{{Name: metric, Values: []float64{cs.Total}}},
		}
	}
	n := min(len(cs.Timestamps), cs.Len())
	return &columnar.Table{
		Timestamps: cs.Timestamps[:n],
		Columns:    []columnar.Column{{Name: metric, Values: cs.Values[:n]}},
	}
}

// WriteConsolidated stores cs under outputDir and returns the written path. An existing
// record for the same metric is replaced.
func WriteConsolidated(outputDir, metric string, axis *aggregate.AlignedAxis, cs *aggregate.ConsolidatedSeries) (string, error) {
	path := ConsolidatedPath(outputDir, metric)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", aggregate.ErrIO, filepath.Dir(path), err)
	}
	table := ConsolidatedTable(metric, axis, cs)
	if err := columnar.WriteParquet(path, table); err != nil {
		return "", fmt.Errorf("%w: writing %s: %w", aggregate.ErrIO, path, err)
	}
	logrus.Debugf("wrote %d consolidated rows to %s", table.Len(), path)
	return path, nil
}
