package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("history index out of range")
	ErrNoCacheDir  = errors.New("no cache directory for history database")
)
