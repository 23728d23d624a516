package enigma

import "errors"

// Error kinds reported by the core. Every failure wraps one of these, so
// callers can classify with errors.Is.
var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnknownRotorName = errors.New("unknown rotor name")
	ErrInvalidLength    = errors.New("invalid length")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrMalformedCycle   = errors.New("malformed cycle")
)
