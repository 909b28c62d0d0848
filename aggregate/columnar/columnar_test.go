package columnar

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{
		Timestamps: []int64{0, 300_000, 600_000},
		Columns: []Column{
			{Name: "power_draw", Values: []float64{120.5, 98, 0}},
			{Name: "carbon_emission", Values: []float64{1.25, 2, 3.5}},
		},
	}
}

func TestParquet_WriteThenRead_PreservesColumns(t *testing.T) {
	// GIVEN a table written to parquet
	path := filepath.Join(t.TempDir(), "host.parquet")
	require.NoError(t, WriteParquet(path, sampleTable()))

	// WHEN one value column is read back
	got, err := ReadParquet(path, "power_draw")

	// THEN the timestamp axis and the requested column round-trip in row order
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 300_000, 600_000}, got.Timestamps)
	values, ok := got.Column("power_draw")
	require.True(t, ok)
	assert.Equal(t, []float64{120.5, 98, 0}, values)
	_, ok = got.Column("carbon_emission")
	assert.False(t, ok)
}

func TestParquet_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.parquet")
	require.NoError(t, WriteParquet(path, sampleTable()))

	_, err := ReadParquet(path, "cpu_utilization")
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "cpu_utilization")
}

func TestParquet_NotAParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.parquet")
	require.NoError(t, os.WriteFile(path, []byte("definitely not parquet"), 0o644))

	_, err := ReadParquet(path, "power_draw")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingColumn)
}

func TestCSV_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.csv")
	require.NoError(t, WriteCSV(path, sampleTable()))

	got, err := ReadCSV(path, "carbon_emission", "power_draw")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, "carbon_emission", got.Columns[0].Name)
	assert.Equal(t, []float64{1.25, 2, 3.5}, got.Columns[0].Values)
	assert.Equal(t, []float64{120.5, 98, 0}, got.Columns[1].Values)
}

func TestReadCSV_EmptyCellsAndFloatTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.csv")
	doc := "timestamp,host_id,power_draw\n0,a,10\n300000.0,b,\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := ReadCSV(path, "power_draw")
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 300_000}, got.Timestamps)
	assert.Equal(t, []float64{10, 0}, got.Columns[0].Values)
}

func TestReadCSV_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		doc     string
		missing bool
	}{
		{name: "no timestamp column", doc: "time,power_draw\n0,1\n", missing: true},
		{name: "no metric column", doc: "timestamp,cpu\n0,1\n", missing: true},
		{name: "bad value", doc: "timestamp,power_draw\n0,abc\n"},
		{name: "bad timestamp", doc: "timestamp,power_draw\nnoon,1\n"},
		{name: "empty file", doc: ""},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "f"+string(rune('a'+i))+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))
			_, err := ReadCSV(path, "power_draw")
			require.Error(t, err)
			assert.Equal(t, tt.missing, errors.Is(err, ErrMissingColumn))
		})
	}
}

func TestEncodeCSV_IntegerTimestamps(t *testing.T) {
	var buf bytes.Buffer
	table := &Table{
		Timestamps: []int64{1_700_000_000_000},
		Columns:    []Column{{Name: "m", Values: []float64{0.1}}},
	}
	require.NoError(t, EncodeCSV(&buf, table))
	assert.Equal(t, "timestamp,m\n1700000000000,0.1\n", buf.String())
}

func TestRead_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.parquet", "b.csv"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Write(path, sampleTable()))
		got, err := Read(path, "power_draw")
		require.NoError(t, err, name)
		assert.Equal(t, 3, got.Len(), name)
	}

	_, err := Read(filepath.Join(dir, "c.json"), "power_draw")
	assert.Error(t, err)
}

func TestTable_Validate(t *testing.T) {
	assert.NoError(t, sampleTable().Validate())

	ragged := sampleTable()
	ragged.Columns[1].Values = ragged.Columns[1].Values[:1]
	assert.Error(t, ragged.Validate())

	dup := sampleTable()
	dup.Columns[1].Name = "power_draw"
	assert.Error(t, dup.Validate())

	shadow := sampleTable()
	shadow.Columns[0].Name = TimestampColumn
	assert.Error(t, shadow.Validate())

	assert.Error(t, WriteParquet(filepath.Join(t.TempDir(), "x.parquet"), ragged))
}
