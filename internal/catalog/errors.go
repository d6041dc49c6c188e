package catalog

import "errors"

// Sentinel errors for the failure taxonomy. Callers distinguish them with
// errors.Is; all are wrapped with context at the point of failure.
var (
	// ErrInvalidArgument marks a nil or empty required input, detected
	// before any I/O takes place.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFileNotFound marks an operation whose subject file is missing
	// from disk. The catalog is left unchanged.
	ErrFileNotFound = errors.New("file not found")
)
