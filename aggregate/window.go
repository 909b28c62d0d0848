package aggregate

import (
	"fmt"
	"slices"
)

// Window reduces raw into consecutive chunks of size and returns the chunk means.
// The result has ceil(len(raw)/size) elements; the last chunk may be shorter.
// A size of 1 returns an exact copy of raw.
func Window(raw []float64, size int) ([]float64, error) {
	return WindowWith(raw, size, MetaMean)
}

// WindowWith is Window with an explicit chunk reducer.
func WindowWith(raw []float64, size int, fn MetaFunction) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: window_size must be positive, got %d", ErrConfiguration, size)
	}
	if !fn.IsValid() {
		return nil, fmt.Errorf("%w: unknown window_function %q", ErrConfiguration, fn)
	}
	if size == 1 {
		return slices.Clone(raw), nil
	}

	processed := make([]float64, 0, (len(raw)+size-1)/size)
	for start := 0; start < len(raw); start += size {
		end := min(start+size, len(raw))
		processed = append(processed, fn.Reduce(raw[start:end]))
	}
	return processed, nil
}

// WindowTimestamps returns the first timestamp of each window over axis.
func WindowTimestamps(axis []int64, size int) []int64 {
	if size <= 1 {
		return slices.Clone(axis)
	}
	out := make([]int64, 0, (len(axis)+size-1)/size)
	for start := 0; start < len(axis); start += size {
		out = append(out, axis[start])
	}
	return out
}
