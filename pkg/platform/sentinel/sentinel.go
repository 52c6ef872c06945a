package sentinel

import "errors"

// Sentinel errors for registry lookup facts. Outcomes that are not a success
// map onto one of these (optionally wrapped) so callers can branch with
// errors.Is instead of switching on the outcome kind:
// - ErrNotFound: the registry holds no matching subject
// - ErrInvalidIdentifier: the registry rejected the supplied identifier
// - ErrIncomplete: a subject was returned but required fields are missing
// - ErrDeceased: the subject is recorded as deceased
// - ErrInvalidState: the registry answered with an unrecognised status
// - ErrUnavailable: the registry could not be reached
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrIncomplete        = errors.New("incomplete identity")
	ErrDeceased          = errors.New("deceased")
	ErrInvalidState      = errors.New("invalid state")
	ErrUnavailable       = errors.New("unavailable")
)
