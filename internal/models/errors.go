package models

import "errors"

// Custom errors
var (
	// ErrMalformedResponse means no usable structured payload was found
	// anywhere in a model response. There is no safe default, so it is
	// surfaced to the caller for a retry.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidProbabilities marks an unusable or zero-sum probability
	// input. Always recovered via the neutral fallback, never fatal.
	ErrInvalidProbabilities = errors.New("invalid probabilities")

	// ErrPersistenceUnavailable marks an unreadable or corrupted backing
	// store. The ledger degrades to empty and logs; the error is never
	// returned to callers of ledger operations.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrUpstreamUnavailable marks a model or lookup collaborator failure.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	ErrNotFound = errors.New("record not found")
)
