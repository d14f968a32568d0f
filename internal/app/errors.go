package app

import "errors"

// Sentinel kinds for engine errors.
var (
	ErrNotStarted    = errors.New("engine not started")
	ErrEmptySnapshot = errors.New("snapshot has no responses")
)
