package injury

import "errors"

var (
	// ErrUnknownInjury indicates an injury type with no protocol.
	ErrUnknownInjury = errors.New("unknown injury type")
	// ErrInvalidRequest indicates an out-of-range or incomplete request.
	ErrInvalidRequest = errors.New("invalid injury request")
)
