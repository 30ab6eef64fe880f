package language

import "errors"

var (
	// ErrUnknownLanguage is returned when an identifier is not in the registry
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrInvalidSpec is returned when a rules entry fails validation at load time
	ErrInvalidSpec = errors.New("invalid language spec")
)
