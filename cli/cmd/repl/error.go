package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
	ErrNoFormula    = errors.New("no formula entered")
	ErrNoRows       = errors.New("no sample rows loaded")
)
