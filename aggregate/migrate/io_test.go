package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlarge-research/m3sa/aggregate"
	"github.com/atlarge-research/m3sa/aggregate/columnar"
)

func writeLocation(t *testing.T, dir, name string, values []float64) {
	t.Helper()
	ts := make([]int64, len(values))
	for i := range ts {
		ts[i] = int64(i+1) * 900_000
	}
	table := &columnar.Table{Timestamps: ts, Columns: []columnar.Column{{Name: "carbon_intensity", Values: values}}}
	require.NoError(t, columnar.Write(filepath.Join(dir, name), table))
}

func TestLoadLocations_SortsAndExcludes(t *testing.T) {
	// GIVEN three country traces and an aggregate EU trace
	dir := t.TempDir()
	writeLocation(t, dir, "NL-2023-06.parquet", []float64{300, 200})
	writeLocation(t, dir, "AT-2023-06.parquet", []float64{100, 120, 130})
	writeLocation(t, dir, "EU-2023-06.parquet", []float64{1, 1})
	writeLocation(t, dir, "DE-2023-06.csv", []float64{400, 50})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))

	// WHEN loaded without EU
	locations, timestamps, err := LoadLocations(dir, "carbon_intensity", "EU")

	// THEN the countries are ordered by name and timestamps come from the first one
	require.NoError(t, err)
	require.Len(t, locations, 3)
	assert.Equal(t, "AT-2023-06", locations[0].Name)
	assert.Equal(t, "DE-2023-06", locations[1].Name)
	assert.Equal(t, "NL-2023-06", locations[2].Name)
	assert.Equal(t, []int64{900_000, 1_800_000, 2_700_000}, timestamps)
}

func TestLoadLocations_Errors(t *testing.T) {
	_, _, err := LoadLocations(filepath.Join(t.TempDir(), "absent"), "carbon_intensity")
	assert.ErrorIs(t, err, aggregate.ErrIO)

	_, _, err = LoadLocations(t.TempDir(), "carbon_intensity")
	assert.ErrorIs(t, err, aggregate.ErrAlignment)

	dir := t.TempDir()
	writeLocation(t, dir, "AT.parquet", []float64{1})
	_, _, err = LoadLocations(dir, "power_draw")
	assert.ErrorIs(t, err, aggregate.ErrAlignment)
}

func TestWriteSpliced_TruncatesToShorter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "EU-migration.parquet")
	res := &Result{Granularity: 1, Spliced: []float64{4, 3, 2, 2}}

	require.NoError(t, WriteSpliced(path, "carbon_intensity", []int64{10, 20, 30}, res))

	got, err := columnar.Read(path, "carbon_intensity")
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, got.Timestamps)
	assert.Equal(t, []float64{4, 3, 2}, got.Columns[0].Values)
}
