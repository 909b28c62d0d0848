// Package testutil provides shared test infrastructure for the aggregation engine.
// It consolidates golden dataset types and float assertion helpers used across
// aggregate/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one hand-checked aggregation scenario.
type GoldenTestCase struct {
	Name         string      `json:"name"`
	Runs         [][]float64 `json:"runs"`
	WindowSize   int         `json:"window_size"`
	MetaFunction string      `json:"meta_function"`
	PlotType     string      `json:"plot_type"`

	WantProcessed  [][]float64 `json:"want_processed,omitempty"`
	WantValues     []float64   `json:"want_values,omitempty"`
	WantCumulative []float64   `json:"want_cumulative,omitempty"`
	WantTotal      float64     `json:"want_total,omitempty"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertSeriesEqual compares two series element-wise with relative tolerance.
func AssertSeriesEqual(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("%s: length got %d, want %d (got=%v, want=%v)", name, len(got), len(want), got, want)
		return
	}
	for i := range want {
		AssertFloat64Equal(t, name+"["+strconv.Itoa(i)+"]", want[i], got[i], relTol)
	}
}
