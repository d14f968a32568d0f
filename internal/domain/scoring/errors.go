package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrScoreOutOfRange = errors.New("kpi value out of range")
)
