// Package fingerprint computes comment-insensitive similarity hashes of
// source files.
package fingerprint

import (
	"fmt"
	"strings"

	"github.com/byRen2002/decomment/internal/language"
	"github.com/byRen2002/decomment/internal/stripper"
	"github.com/glaslos/tlsh"
)

// MinLength is the shortest normalized input that can be hashed
const MinLength = 50

// Fingerprint is the TLSH hash of a file's code with comments and layout removed
type Fingerprint struct {
	hash   *tlsh.TLSH
	Length int
}

// Normalize strips comments from src, collapses runs of whitespace and
// drops blank lines.
func Normalize(src string, spec *language.Spec) string {
	code := stripper.StripSpec(src, spec, stripper.Options{Policy: stripper.Space})

	var lines []string
	for _, line := range strings.Split(code, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}

// Compute fingerprints src as the given language
func Compute(src string, spec *language.Spec) (*Fingerprint, error) {
	normalized := Normalize(src, spec)
	if len(normalized) < MinLength {
		return nil, fmt.Errorf("%w: %d bytes after normalization", ErrTooSmall, len(normalized))
	}

	hash, err := tlsh.HashBytes([]byte(normalized))
	if err != nil {
		return nil, fmt.Errorf("failed to calculate TLSH hash: %w", err)
	}

	return &Fingerprint{hash: hash, Length: len(normalized)}, nil
}

// String returns the hex form of the hash
func (f *Fingerprint) String() string {
	return f.hash.String()
}

// Distance returns the TLSH distance between two fingerprints; 0 means
// the normalized code is alike.
func (f *Fingerprint) Distance(other *Fingerprint) (int, error) {
	if f == nil || other == nil {
		return 0, ErrNilFingerprint
	}
	return f.hash.Diff(other.hash), nil
}
