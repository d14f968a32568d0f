package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrInvalidDefinition = errors.New("invalid kpi definition")
)
