package knowledge

import "errors"

// Sentinel kinds for knowledge-base errors.
var (
	// ErrInvalidProfile marks a rejected knowledge-base document. The error
	// is fatal to that load; a previously active table stays in place.
	ErrInvalidProfile = errors.New("invalid cluster profile")
	// ErrNoGeneralProfile marks a document without the designated fallback
	// profile. Lookup must never fail, so the fallback is mandatory.
	ErrNoGeneralProfile = errors.New("missing general fallback profile")
)
