// Package stripper removes comments located by the scanner.
package stripper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byRen2002/decomment/internal/language"
	"github.com/byRen2002/decomment/internal/scanner"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names
var ErrUnknownPolicy = errors.New("unknown strip policy")

// Policy decides what replaces a stripped comment.
type Policy int

const (
	// Remove deletes the comment.
	Remove Policy = iota
	// Space replaces the comment with a single space.
	Space
	// Blank keeps only the newlines inside the comment, so line numbers
	// of the remaining code do not move.
	Blank
)

func (p Policy) String() string {
	switch p {
	case Remove:
		return "remove"
	case Space:
		return "space"
	case Blank:
		return "blank"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name as printed by Policy.String.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "remove", "":
		return Remove, nil
	case "space":
		return Space, nil
	case "blank":
		return Blank, nil
	}
	return Remove, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Options controls which comments are stripped and how.
type Options struct {
	Policy Policy
	// StandaloneOnly keeps comments that follow code on the same line.
	StandaloneOnly bool
}

// Standalone reports whether span is preceded only by whitespace on its line.
func Standalone(src string, span scanner.Span) bool {
	lineStart := strings.LastIndexByte(src[:span.Start], '\n') + 1
	return strings.TrimSpace(src[lineStart:span.Start]) == ""
}

// Select filters spans down to the ones opts would strip.
func Select(src string, spans []scanner.Span, opts Options) []scanner.Span {
	if !opts.StandaloneOnly {
		return spans
	}
	selected := make([]scanner.Span, 0, len(spans))
	for _, span := range spans {
		if Standalone(src, span) {
			selected = append(selected, span)
		}
	}
	return selected
}

// Apply replaces each span in src according to policy in a single pass.
// Spans must be in source order and must not overlap.
func Apply(src string, spans []scanner.Span, policy Policy) string {
	if len(spans) == 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))

	last := 0
	for _, span := range spans {
		b.WriteString(src[last:span.Start])
		switch policy {
		case Space:
			b.WriteByte(' ')
		case Blank:
			b.WriteString(strings.Repeat("\n", strings.Count(span.Text(src), "\n")))
		}
		last = span.End
	}
	b.WriteString(src[last:])

	return b.String()
}

// StripSpec strips comments from src until the text is stable. Removing a
// comment can join the halves of a marker around it into a new one.
func StripSpec(src string, spec *language.Spec, opts Options) string {
	// A pass never grows the text and only keeps its length when it
	// swaps one-byte comments for spaces.
	limit := len(src) + 1
	for i := 0; i < limit; i++ {
		spans := Select(src, scanner.All(src, spec), opts)
		out := Apply(src, spans, opts.Policy)
		if out == src {
			return out
		}
		src = out
	}
	return src
}

// Strip strips all comments from text for a language in the default registry.
func Strip(text, languageID string, policy Policy) (string, error) {
	spec, err := language.Default().Get(languageID)
	if err != nil {
		return "", err
	}
	return StripSpec(text, spec, Options{Policy: policy}), nil
}
