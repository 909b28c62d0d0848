package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/atlarge-research/m3sa/aggregate"
	"github.com/atlarge-research/m3sa/aggregate/columnar"
)

// LoadLocations reads column from every .parquet and .csv file in dir. Each file is one
// location named after the file without its extension; files whose name starts with one
// of exclude are skipped. Locations are ordered by name. The timestamps of the first
// location are returned alongside.
func LoadLocations(dir, column string, exclude ...string) ([]Location, []int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing %s: %w", aggregate.ErrIO, dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || excluded(e.Name(), exclude) {
			continue
		}
		if _, err := columnar.FormatOf(e.Name()); err == nil {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: no location files in %s", aggregate.ErrAlignment, dir)
	}

	locations := make([]Location, len(files))
	var timestamps []int64
	for i, name := range files {
		path := filepath.Join(dir, name)
		table, err := columnar.Read(path, column)
		if errors.Is(err, columnar.ErrMissingColumn) {
			return nil, nil, fmt.Errorf("%w: location %s: %w", aggregate.ErrAlignment, path, err)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: location %s: %w", aggregate.ErrIO, path, err)
		}
		values, _ := table.Column(column)
		locations[i] = Location{Name: strings.TrimSuffix(name, filepath.Ext(name)), Values: values}
		if i == 0 {
			timestamps = table.Timestamps
		}
	}
	return locations, timestamps, nil
}

func excluded(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// WriteSpliced stores the spliced series of res as a (timestamp, column) record at path,
// truncated to the shorter of timestamps and the series.
func WriteSpliced(path, column string, timestamps []int64, res *Result) error {
	n := min(len(timestamps), len(res.Spliced))
	table := &columnar.Table{
		Timestamps: timestamps[:n],
		Columns:    []columnar.Column{{Name: column, Values: res.Spliced[:n]}},
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", aggregate.ErrIO, filepath.Dir(path), err)
	}
	if err := columnar.Write(path, table); err != nil {
		return fmt.Errorf("%w: writing %s: %w", aggregate.ErrIO, path, err)
	}
	return nil
}
