package columnar

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

const readBatchSize = 256

// ReadParquet loads the timestamp column and the named value columns from a parquet
// file. Integer and floating point physical types are accepted for every column; nulls
// read as zero.
func ReadParquet(path string, columns ...string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening parquet %s: %w", path, err)
	}

	schema := pf.Schema()
	tsLeaf, ok := schema.Lookup(TimestampColumn)
	if !ok {
		return nil, missingColumn(path, TimestampColumn)
	}
	indexes := make(map[int]int, len(columns)) // parquet column index -> table column
	for i, name := range columns {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return nil, missingColumn(path, name)
		}
		indexes[leaf.ColumnIndex] = i
	}

	table := &Table{Columns: make([]Column, len(columns))}
	for i, name := range columns {
		table.Columns[i].Name = name
	}

	buf := make([]parquet.Row, readBatchSize)
	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, buf, tsLeaf.ColumnIndex, indexes, table); err != nil {
			return nil, fmt.Errorf("reading parquet %s: %w", path, err)
		}
	}
	return table, nil
}

func readRowGroup(rg parquet.RowGroup, buf []parquet.Row, tsIndex int, indexes map[int]int, table *Table) error {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()

	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			appendRow(row, tsIndex, indexes, table)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func appendRow(row parquet.Row, tsIndex int, indexes map[int]int, table *Table) {
	table.Timestamps = append(table.Timestamps, 0)
	for i := range table.Columns {
		table.Columns[i].Values = append(table.Columns[i].Values, 0)
	}
	last := len(table.Timestamps) - 1
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		if v.Column() == tsIndex {
			table.Timestamps[last] = timestamp(v)
			continue
		}
		if i, ok := indexes[v.Column()]; ok {
			table.Columns[i].Values[last] = numeric(v)
		}
	}
}

func timestamp(v parquet.Value) int64 {
	switch v.Kind() {
	case parquet.Int64:
		return v.Int64()
	case parquet.Int32:
		return int64(v.Int32())
	}
	return int64(numeric(v))
}

// numeric converts a parquet value of any numeric physical type to float64.
func numeric(v parquet.Value) float64 {
	switch v.Kind() {
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.Boolean:
		if v.Boolean() {
			return 1
		}
	}
	return 0
}

// WriteParquet writes table to path with an INT64 timestamp column and one DOUBLE column
// per value column. An existing file is replaced.
func WriteParquet(path string, table *Table) error {
	if err := table.Validate(); err != nil {
		return err
	}

	group := parquet.Group{TimestampColumn: parquet.Int(64)}
	for _, c := range table.Columns {
		group[c.Name] = parquet.Leaf(parquet.DoubleType)
	}
	schema := parquet.NewSchema("table", group)

	tsLeaf, _ := schema.Lookup(TimestampColumn)
	leafIndexes := make([]int, len(table.Columns))
	for i, c := range table.Columns {
		leaf, _ := schema.Lookup(c.Name)
		leafIndexes[i] = leaf.ColumnIndex
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	writer := parquet.NewWriter(f, schema)
	rows := make([]parquet.Row, table.Len())
	width := len(table.Columns) + 1
	for r := range rows {
		row := make(parquet.Row, width)
		row[tsLeaf.ColumnIndex] = parquet.Int64Value(table.Timestamps[r]).Level(0, 0, tsLeaf.ColumnIndex)
		for i, c := range table.Columns {
			row[leafIndexes[i]] = parquet.DoubleValue(c.Values[r]).Level(0, 0, leafIndexes[i])
		}
		rows[r] = row
	}
	if _, err := writer.WriteRows(rows); err != nil {
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return f.Close()
}
