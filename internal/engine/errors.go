package engine

import "errors"

// ErrInvalidInput is the sentinel wrapped by every fatal validation error
// raised before any solver work begins. Callers
// can distinguish it from a solver-status result via errors.Is.
var ErrInvalidInput = errors.New("invalid input")
