package language

import (
	"fmt"
	"path/filepath"
)

// Registry maintains the loaded language specs. It is read-only once built
// and safe for concurrent use.
type Registry struct {
	specs        []*Spec
	byIdentifier map[string]ID
	byExtension  map[string][]ID
}

func newRegistry() *Registry {
	return &Registry{
		byIdentifier: make(map[string]ID),
		byExtension:  make(map[string][]ID),
	}
}

// add registers spec and assigns its ID. Registration order is lookup order.
func (r *Registry) add(spec *Spec) error {
	if _, exists := r.byIdentifier[spec.Identifier]; exists {
		return fmt.Errorf("%w: duplicate language %q", ErrInvalidSpec, spec.Identifier)
	}

	spec.ID = ID(len(r.specs))
	r.specs = append(r.specs, spec)
	r.byIdentifier[spec.Identifier] = spec.ID

	for _, ext := range spec.Extensions {
		r.byExtension[ext] = append(r.byExtension[ext], spec.ID)
	}
	return nil
}

// Get returns the spec registered under identifier
func (r *Registry) Get(identifier string) (*Spec, error) {
	id, err := r.ID(identifier)
	if err != nil {
		return nil, err
	}
	return r.specs[id], nil
}

// ID resolves identifier to its handle
func (r *Registry) ID(identifier string) (ID, error) {
	id, ok := r.byIdentifier[identifier]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownLanguage, identifier)
	}
	return id, nil
}

// Spec returns the spec for id, or nil when id was not issued by this registry.
func (r *Registry) Spec(id ID) *Spec {
	if id < 0 || int(id) >= len(r.specs) {
		return nil
	}
	return r.specs[id]
}

// ResolveByExtension returns every language claiming ext, in registry
// order. The result is empty when nothing matches.
func (r *Registry) ResolveByExtension(ext string) []*Spec {
	ids := r.byExtension[normalizeExtension(ext)]
	specs := make([]*Spec, 0, len(ids))
	for _, id := range ids {
		specs = append(specs, r.specs[id])
	}
	return specs
}

// ResolvePath resolves the languages for a file path by its extension.
func (r *Registry) ResolvePath(path string) []*Spec {
	ext := filepath.Ext(path)
	if ext == "" {
		return []*Spec{}
	}
	return r.ResolveByExtension(ext)
}

// Languages returns all specs in registry order
func (r *Registry) Languages() []*Spec {
	specs := make([]*Spec, len(r.specs))
	copy(specs, r.specs)
	return specs
}

// Len returns the number of registered languages
func (r *Registry) Len() int {
	return len(r.specs)
}
