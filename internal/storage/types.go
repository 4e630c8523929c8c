package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates that the requested submission was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a message type outside {amplify, comment}.
	ErrUnsupportedType = errors.New("unsupported message type")

	// ErrDuplicate indicates that an insert violated an id or href
	// uniqueness constraint. Message delivery is at-most-once; duplicates
	// are surfaced to the caller, never retried or merged.
	ErrDuplicate = errors.New("duplicate record")
)

// LookbackSeconds is the rolling read-time window applied by the aggregation
// readers: 21 days. It is a query-time filter, not a retention policy; old
// rows are never purged.
const LookbackSeconds int64 = 1_814_400

// WindowStart returns the inclusive lower timestamp bound for windowed reads
// evaluated at the given moment.
func WindowStart(now time.Time) int64 {
	return now.Unix() - LookbackSeconds
}
