package ranking

import "errors"

// Sentinel kinds for ranking queries.
var (
	// ErrMissingParameter means role or metric is unselected. Callers show an
	// idle prompt instead of a result; it is not a failure.
	ErrMissingParameter = errors.New("role and metric must both be selected")
	// ErrInvalidRange means the lower year bound exceeds the upper one.
	ErrInvalidRange = errors.New("invalid year range")
)
