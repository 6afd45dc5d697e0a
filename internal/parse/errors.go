package parse

import "errors"

var (
	// ErrMalformedTime indicates a duration string that is not HH:MM:SS.
	ErrMalformedTime = errors.New("malformed time")
	// ErrMalformedPace indicates a pace string that is not M:SS or a decimal.
	ErrMalformedPace = errors.New("malformed pace")
	// ErrMalformedBalance indicates a GCT balance string without an L/R split.
	ErrMalformedBalance = errors.New("malformed gct balance")
	// ErrMalformedNumber indicates a field that cannot be read as a float.
	ErrMalformedNumber = errors.New("malformed number")
)
