package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/atlarge-research/m3sa/aggregate"
)

// AnalysisDir is the directory under the output root holding plots and the analysis log.
const AnalysisDir = "simulation-analysis"

const analysisHeader = "Analysis file created.\n"

const separator = "========================================"

// AnalysisEntry is one invocation's record in the analysis log.
type AnalysisEntry struct {
	At          time.Time
	Metric      string
	Unit        string
	WindowSize  int
	SampleCount int
	Elapsed     time.Duration
	PlotPath    string
}

// AnalysisPath returns the analysis log location under outputDir.
func AnalysisPath(outputDir string) string {
	return filepath.Join(outputDir, AnalysisDir, "analysis.txt")
}

// EnsureAnalysisLog creates the analysis log with its header line if it does not exist
// yet, and returns its path.
func EnsureAnalysisLog(outputDir string) (string, error) {
	path := AnalysisPath(outputDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", aggregate.ErrIO, filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", aggregate.ErrIO, path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(analysisHeader); err != nil {
		return "", fmt.Errorf("%w: writing %s: %w", aggregate.ErrIO, path, err)
	}
	return path, f.Close()
}

// Format renders the entry as a log block.
func (e AnalysisEntry) Format() string {
	var b strings.Builder
	b.WriteString("\n\n" + separator + "\n")
	fmt.Fprintf(&b, "Simulation made at %s\n", e.At.Format(time.DateTime))
	fmt.Fprintf(&b, "Metric: %s\n", e.Metric)
	fmt.Fprintf(&b, "Unit: %s\n", e.Unit)
	fmt.Fprintf(&b, "Window size: %d\n", e.WindowSize)
	fmt.Fprintf(&b, "Sample count in raw sim data: %s\n", humanize.Comma(int64(e.SampleCount)))
	fmt.Fprintf(&b, "Computing time %.1fs\n", e.Elapsed.Seconds())
	fmt.Fprintf(&b, "Plot path: %s\n", e.PlotPath)
	b.WriteString(separator + "\n")
	return b.String()
}

// AppendAnalysis appends entry to the analysis log at path.
func AppendAnalysis(path string, entry AnalysisEntry) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", aggregate.ErrIO, path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(entry.Format()); err != nil {
		return fmt.Errorf("%w: appending to %s: %w", aggregate.ErrIO, path, err)
	}
	return f.Close()
}
