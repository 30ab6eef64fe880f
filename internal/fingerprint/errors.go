package fingerprint

import "errors"

var (
	// ErrTooSmall is returned when too little code remains after normalization
	ErrTooSmall = errors.New("not enough code to fingerprint")

	// ErrNilFingerprint is returned when comparing against a nil fingerprint
	ErrNilFingerprint = errors.New("nil fingerprint")
)
