package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/atlarge-research/m3sa/aggregate"
)

// MetadataFile is the optional experiment description written next to raw-output.
const MetadataFile = "trackr.json"

// ReadMetadata reads the per-run experiment entries from <outputDir>/trackr.json. Entry i
// describes run i. A missing file is not an error and yields nil.
func ReadMetadata(outputDir string) ([]aggregate.RunMetadata, error) {
	path := filepath.Join(outputDir, MetadataFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", aggregate.ErrIO, path, err)
	}
	var entries []aggregate.RunMetadata
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", aggregate.ErrIO, path, err)
	}
	return entries, nil
}

// AttachMetadata sets Meta on every run that has an entry. Runs beyond the end of entries
// keep a nil Meta.
func AttachMetadata(runs []*aggregate.Run, entries []aggregate.RunMetadata) {
	for _, r := range runs {
		if r.ID >= 0 && r.ID < len(entries) {
			meta := entries[r.ID]
			r.Meta = &meta
		}
	}
}
