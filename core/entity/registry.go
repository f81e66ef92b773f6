package entity

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateEntity is returned when two declarations share a qualified name.
var ErrDuplicateEntity = errors.New("duplicate entity declaration")

// Registry is the lookup table through which supertype references are resolved. A supertype is a
// navigational reference only: declarations never own each other.
type Registry struct {
	decls map[string]*Decl
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decls: make(map[string]*Decl)}
}

// Add registers a declaration under its qualified name. Nil marker sets are replaced with
// NoMarkers so consumers never have to check for them.
func (r *Registry) Add(d *Decl) error {
	name := d.QualifiedName()
	if existing, ok := r.decls[name]; ok {
		return fmt.Errorf("%w: %s (declared in %q and %q)", ErrDuplicateEntity, name, existing.Source, d.Source)
	}
	if d.Markers == nil {
		d.Markers = NoMarkers
	}
	for i := range d.Fields {
		if d.Fields[i].Markers == nil {
			d.Fields[i].Markers = NoMarkers
		}
	}
	r.decls[name] = d
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the declaration registered under a qualified name.
func (r *Registry) Lookup(qualifiedName string) (*Decl, bool) {
	d, ok := r.decls[qualifiedName]
	return d, ok
}

// Len returns the number of registered declarations.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns the registered declarations in registration order.
func (r *Registry) All() []*Decl {
	out := make([]*Decl, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.decls[name])
	}
	return out
}

// Names returns the registered qualified names sorted lexicographically.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}
