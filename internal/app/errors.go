package service

import "errors"

// ErrUnknownPhase indicates a phase number outside 1-4.
var ErrUnknownPhase = errors.New("unknown pipeline phase")
