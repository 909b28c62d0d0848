package columnar

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV loads the timestamp column and the named value columns from a CSV file whose
// first row is a header. Empty cells read as zero.
func ReadCSV(path string, columns ...string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header of %s: %w", path, err)
	}
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.TrimSpace(name)] = i
	}
	tsPos, ok := position[TimestampColumn]
	if !ok {
		return nil, missingColumn(path, TimestampColumn)
	}
	colPos := make([]int, len(columns))
	table := &Table{Columns: make([]Column, len(columns))}
	for i, name := range columns {
		p, ok := position[name]
		if !ok {
			return nil, missingColumn(path, name)
		}
		colPos[i] = p
		table.Columns[i].Name = name
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row of %s: %w", path, err)
		}
		ts, err := parseTimestamp(record[tsPos])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		table.Timestamps = append(table.Timestamps, ts)
		for i, p := range colPos {
			v, err := parseValue(record[p])
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %q: %w", path, line, columns[i], err)
			}
			table.Columns[i].Values = append(table.Columns[i].Values, v)
		}
	}
	return table, nil
}

func parseTimestamp(cell string) (int64, error) {
	cell = strings.TrimSpace(cell)
	if ts, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return ts, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", cell)
	}
	return int64(f), nil
}

func parseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}

// WriteCSV writes table to path: a header row, then one row per timestamp. Timestamps
// use integer formatting; values use the shortest exact representation.
func WriteCSV(path string, table *Table) error {
	if err := table.Validate(); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := EncodeCSV(file, table); err != nil {
		return err
	}
	return file.Close()
}

// EncodeCSV writes table as CSV to w.
func EncodeCSV(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(table.Columns)+1)
	header = append(header, TimestampColumn)
	for _, c := range table.Columns {
		header = append(header, c.Name)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	row := make([]string, len(header))
	for r, ts := range table.Timestamps {
		row[0] = strconv.FormatInt(ts, 10)
		for i, c := range table.Columns {
			row[i+1] = strconv.FormatFloat(c.Values[r], 'f', -1, 64)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", r, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
