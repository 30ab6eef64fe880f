// Package language holds the registry of comment syntax rules, keyed by
// language identifier and file extension.
package language

import "strings"

// ID is a handle to a language inside the Registry that issued it.
type ID int

// SingleLineRule marks everything from Pattern to the end of the line as a comment.
type SingleLineRule struct {
	Pattern     string
	Description string
}

// MultiLineRule marks everything from Start through the next End as a comment.
type MultiLineRule struct {
	Start       string
	End         string
	Description string
}

// Spec describes the comment syntax of one language. Specs handed out by a
// Registry are shared and must not be modified.
type Spec struct {
	ID         ID
	Identifier string
	Name       string
	Extensions []string
	SingleLine []SingleLineRule
	MultiLine  []MultiLineRule
}

func (s *Spec) String() string {
	return s.Identifier
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
