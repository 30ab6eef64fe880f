package language

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// RulesFileName is the rules file looked up next to the executable and in
// the working directory.
const RulesFileName = "syntax_rules.json"

// EmbeddedSource names the built-in rules in Discover results.
const EmbeddedSource = "embedded"

//go:embed syntax_rules.json
var embeddedRules []byte

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// rawRules mirrors one entry of the rules file. Pointers distinguish an
// absent marker from an empty one.
type rawRules struct {
	Name       string          `json:"name" yaml:"name"`
	Extensions []string        `json:"extensions" yaml:"extensions"`
	SingleLine []rawSingleLine `json:"single_line" yaml:"single_line"`
	MultiLine  []rawMultiLine  `json:"multi_line" yaml:"multi_line"`
}

type rawSingleLine struct {
	Pattern     *string `json:"pattern" yaml:"pattern"`
	Description string  `json:"description" yaml:"description"`
}

type rawMultiLine struct {
	Start       *string `json:"start" yaml:"start"`
	End         *string `json:"end" yaml:"end"`
	Description string  `json:"description" yaml:"description"`
}

type rawEntry struct {
	identifier string
	rules      rawRules
}

// Default returns the registry built from the embedded rules. It panics if
// the embedded rules are invalid.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Parse(embeddedRules)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("language: embedded rules: %v", defaultErr))
	}
	return defaultRegistry
}

// Load reads and validates the rules file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

var executable = os.Executable

// Discover loads the rules file at path. With an empty path it looks for
// RulesFileName next to the executable, then in the working directory, and
// falls back to the embedded rules. The second result names the source.
func Discover(path string) (*Registry, string, error) {
	if path != "" {
		reg, err := Load(path)
		return reg, path, err
	}

	var candidates []string
	if exe, err := executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), RulesFileName))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, RulesFileName))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, candidate, err
		}
		reg, err := Load(candidate)
		return reg, candidate, err
	}

	return Default(), EmbeddedSource, nil
}

// Parse builds a registry from rules data. JSON and YAML documents are
// accepted; registry order follows document order.
func Parse(data []byte) (*Registry, error) {
	var (
		entries []rawEntry
		err     error
	)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		entries, err = decodeJSON(trimmed)
	} else {
		entries, err = decodeYAML(trimmed)
	}
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no languages defined", ErrInvalidSpec)
	}

	reg := newRegistry()
	for _, entry := range entries {
		spec, err := entry.validate()
		if err != nil {
			return nil, err
		}
		if err := reg.add(spec); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func decodeJSON(data []byte) ([]rawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: rules must be an object keyed by language", ErrInvalidSpec)
	}

	var entries []rawEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
		key, _ := tok.(string)

		var rules rawRules
		if err := dec.Decode(&rules); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSpec, key, err)
		}
		entries = append(entries, rawEntry{identifier: key, rules: rules})
	}
	return entries, nil
}

func decodeYAML(data []byte) ([]rawEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: rules must be a mapping keyed by language", ErrInvalidSpec)
	}

	entries := make([]rawEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value

		var rules rawRules
		if err := root.Content[i+1].Decode(&rules); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSpec, key, err)
		}
		entries = append(entries, rawEntry{identifier: key, rules: rules})
	}
	return entries, nil
}

func (e rawEntry) validate() (*Spec, error) {
	id := strings.TrimSpace(e.identifier)
	if id == "" {
		return nil, fmt.Errorf("%w: empty language identifier", ErrInvalidSpec)
	}
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidSpec, id, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(e.rules.Name) == "" {
		return nil, invalid("missing name")
	}

	spec := &Spec{
		Identifier: id,
		Name:       e.rules.Name,
	}

	seen := make(map[string]bool)
	for _, ext := range e.rules.Extensions {
		norm := normalizeExtension(ext)
		if norm == "" {
			return nil, invalid("empty extension")
		}
		if seen[norm] {
			continue
		}
		seen[norm] = true
		spec.Extensions = append(spec.Extensions, norm)
	}

	for i, rule := range e.rules.SingleLine {
		if rule.Pattern == nil || *rule.Pattern == "" {
			return nil, invalid("single_line[%d]: empty pattern", i)
		}
		spec.SingleLine = append(spec.SingleLine, SingleLineRule{
			Pattern:     *rule.Pattern,
			Description: rule.Description,
		})
	}

	for i, rule := range e.rules.MultiLine {
		switch {
		case rule.Start == nil && rule.End == nil:
			return nil, invalid("multi_line[%d]: missing start and end", i)
		case rule.End == nil:
			return nil, invalid("multi_line[%d]: start without end", i)
		case rule.Start == nil:
			return nil, invalid("multi_line[%d]: end without start", i)
		case *rule.Start == "":
			return nil, invalid("multi_line[%d]: empty start", i)
		case *rule.End == "":
			return nil, invalid("multi_line[%d]: empty end", i)
		}
		spec.MultiLine = append(spec.MultiLine, MultiLineRule{
			Start:       *rule.Start,
			End:         *rule.End,
			Description: rule.Description,
		})
	}

	return spec, nil
}
