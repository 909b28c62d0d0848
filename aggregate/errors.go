package aggregate

import "errors"

// Error categories. Every error returned by this module wraps exactly one of these,
// so callers can classify failures with errors.Is.
var (
	// ErrConfiguration marks a missing required field, an unknown enum value or a
	// non-positive window size. Raised when the Config is built.
	ErrConfiguration = errors.New("configuration error")

	// ErrAlignment marks a run set that cannot share an aligned axis: zero runs, or a
	// run missing the configured metric column. Aborts the whole batch.
	ErrAlignment = errors.New("alignment error")

	// ErrIO marks an unreadable or malformed record set. The wrapping message names
	// the offending path.
	ErrIO = errors.New("io error")
)
