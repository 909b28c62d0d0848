// Package columnar reads and writes the flat timestamp-keyed tables that simulation runs
// emit and the meta-model consolidation produces. Parquet is the primary format; CSV is
// accepted for hand-made fixtures and small exports.
package columnar

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// TimestampColumn is the column every record file is keyed by.
const TimestampColumn = "timestamp"

// ErrMissingColumn is returned when a requested column is absent from a file.
var ErrMissingColumn = errors.New("missing column")

// Column is one named numeric column.
type Column struct {
	Name   string
	Values []float64
}

// Table is a timestamp axis plus numeric columns of the same length, in row order.
type Table struct {
	Timestamps []int64
	Columns    []Column
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Timestamps) }

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// Validate checks that every column is as long as the timestamp axis and that names are
// unique and distinct from the timestamp column.
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" || c.Name == TimestampColumn {
			return fmt.Errorf("invalid column name %q", c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Values) != len(t.Timestamps) {
			return fmt.Errorf("column %q has %d rows, timestamp axis has %d", c.Name, len(c.Values), len(t.Timestamps))
		}
	}
	return nil
}

// Format is a supported record file encoding.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// FormatOf infers the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported record file %q: expected .parquet or .csv", path)
	}
}

// Read loads the timestamp column and the named value columns from path, dispatching on
// the file extension. A requested column that is absent yields ErrMissingColumn.
func Read(path string, columns ...string) (*Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatCSV {
		return ReadCSV(path, columns...)
	}
	return ReadParquet(path, columns...)
}

// Write stores table at path in the format implied by its extension.
func Write(path string, table *Table) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatCSV {
		return WriteCSV(path, table)
	}
	return WriteParquet(path, table)
}

func missingColumn(path, name string) error {
	return fmt.Errorf("%w %q in %s", ErrMissingColumn, name, path)
}
