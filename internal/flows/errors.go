package flows

import "errors"

var (
	// ErrUnknownFlow is returned for flow names with no definition.
	ErrUnknownFlow = errors.New("flows: unknown flow")

	// ErrInvalidDate is returned by Slots for malformed dates.
	ErrInvalidDate = errors.New("flows: date must be YYYY-MM-DD")
)
