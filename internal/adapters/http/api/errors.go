package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrBatchTooLarge = errors.New("batch exceeds configured maximum")
)
