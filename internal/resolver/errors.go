package resolver

import "errors"

var (
	// ErrNotFound is returned when no candidate event clears the
	// acceptance threshold, including the ambiguous case where several
	// events match equally well and guessing would be wrong.
	ErrNotFound = errors.New("no matching event found")
)
