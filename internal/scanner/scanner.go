// Package scanner locates comment spans in source text using the markers
// of a language.Spec.
//
// Matching is purely lexical. String literals are not recognized, so a
// marker inside a quoted string starts a comment like any other.
package scanner

import (
	"sort"
	"strings"

	"github.com/byRen2002/decomment/internal/language"
)

// Kind classifies a comment span
type Kind int

const (
	SingleLine Kind = iota + 1
	MultiLine
)

func (k Kind) String() string {
	switch k {
	case SingleLine:
		return "single-line"
	case MultiLine:
		return "multi-line"
	default:
		return "unknown"
	}
}

// Span is a comment occupying src[Start:End]. Marker is the start marker
// that opened it. Unterminated is set on multi-line spans that ran to the
// end of input without a closing marker.
type Span struct {
	Start        int
	End          int
	Kind         Kind
	Marker       string
	Unterminated bool
}

// Text returns the span's content within src
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Scanner walks src from left to right and yields comment spans in source
// order. A Scanner is not safe for concurrent use; create one per goroutine.
type Scanner struct {
	src    string
	pos    int
	single []string
	multi  []language.MultiLineRule
}

// New creates a scanner over src for the given language.
func New(src string, spec *language.Spec) *Scanner {
	s := &Scanner{src: src}

	for _, rule := range spec.SingleLine {
		s.single = append(s.single, rule.Pattern)
	}
	s.multi = append(s.multi, spec.MultiLine...)

	// Longest marker first, so /// wins over // and /** over /*.
	sort.SliceStable(s.single, func(i, j int) bool {
		return len(s.single[i]) > len(s.single[j])
	})
	sort.SliceStable(s.multi, func(i, j int) bool {
		return len(s.multi[i].Start) > len(s.multi[j].Start)
	})

	return s
}

// Next returns the next comment span. It returns false once the input is
// exhausted.
func (s *Scanner) Next() (Span, bool) {
	for s.pos < len(s.src) {
		rest := s.src[s.pos:]

		if rule, ok := s.matchMulti(rest); ok {
			span := Span{
				Start:  s.pos,
				Kind:   MultiLine,
				Marker: rule.Start,
			}
			body := s.pos + len(rule.Start)
			if idx := strings.Index(s.src[body:], rule.End); idx >= 0 {
				span.End = body + idx + len(rule.End)
			} else {
				span.End = len(s.src)
				span.Unterminated = true
			}
			s.pos = span.End
			return span, true
		}

		if marker, ok := s.matchSingle(rest); ok {
			span := Span{
				Start:  s.pos,
				Kind:   SingleLine,
				Marker: marker,
			}
			body := s.pos + len(marker)
			if idx := strings.IndexByte(s.src[body:], '\n'); idx >= 0 {
				span.End = body + idx
			} else {
				span.End = len(s.src)
			}
			s.pos = span.End
			return span, true
		}

		s.pos++
	}
	return Span{}, false
}

// Reset rewinds the scanner to the start of its input.
func (s *Scanner) Reset() {
	s.pos = 0
}

func (s *Scanner) matchMulti(rest string) (language.MultiLineRule, bool) {
	for _, rule := range s.multi {
		if strings.HasPrefix(rest, rule.Start) {
			return rule, true
		}
	}
	return language.MultiLineRule{}, false
}

func (s *Scanner) matchSingle(rest string) (string, bool) {
	for _, marker := range s.single {
		if strings.HasPrefix(rest, marker) {
			return marker, true
		}
	}
	return "", false
}

// All collects every span in src.
func All(src string, spec *language.Spec) []Span {
	var spans []Span
	s := New(src, spec)
	for {
		span, ok := s.Next()
		if !ok {
			return spans
		}
		spans = append(spans, span)
	}
}

// Scan collects the spans of text for a language in the default registry.
func Scan(text, languageID string) ([]Span, error) {
	spec, err := language.Default().Get(languageID)
	if err != nil {
		return nil, err
	}
	return All(text, spec), nil
}

// LineOf returns the 1-based line number of offset in src.
func LineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}
