package annotation

import (
	"sort"

	"github.com/stokaro/qmeta/core/entity"
)

// defaultNames lists the annotation names recognised for each marker kind out of the box.
var defaultNames = map[entity.MarkerKind][]string{
	entity.MarkerTable: {
		"org.springframework.data.relational.core.mapping.Table",
		"jakarta.persistence.Table",
		"javax.persistence.Table",
		"Table",
	},
	entity.MarkerColumn: {
		"org.springframework.data.relational.core.mapping.Column",
		"jakarta.persistence.Column",
		"javax.persistence.Column",
		"Column",
	},
	entity.MarkerID: {
		"org.springframework.data.annotation.Id",
		"jakarta.persistence.Id",
		"javax.persistence.Id",
		"Id",
	},
	entity.MarkerTransient: {
		"org.springframework.data.annotation.Transient",
		"jakarta.persistence.Transient",
		"javax.persistence.Transient",
		"Transient",
	},
	entity.MarkerJdbcTypeCode: {
		"org.hibernate.annotations.JdbcTypeCode",
		"JdbcTypeCode",
	},
	entity.MarkerNotNull: {
		"jakarta.validation.constraints.NotNull",
		"javax.validation.constraints.NotNull",
		"org.springframework.lang.NonNull",
		"NotNull",
		"NonNull",
	},
}

// columnAttrAliases maps alternative attribute spellings to the canonical attribute names of the
// column marker.
var columnAttrAliases = map[string]string{
	"columnDefinition": "definition",
}

// Aliases maps annotation names to marker kinds.
type Aliases struct {
	kinds map[string]entity.MarkerKind
}

// DefaultAliases returns the alias table with every built-in annotation name registered.
func DefaultAliases() *Aliases {
	a := &Aliases{kinds: make(map[string]entity.MarkerKind)}
	for kind, names := range defaultNames {
		a.Add(kind, names...)
	}
	return a
}

// Add registers additional annotation names for a marker kind. A name registered earlier for
// another kind is rebound.
func (a *Aliases) Add(kind entity.MarkerKind, names ...string) {
	for _, n := range names {
		a.kinds[n] = kind
	}
}

// Kind returns the marker kind bound to an annotation name.
func (a *Aliases) Kind(name string) (entity.MarkerKind, bool) {
	k, ok := a.kinds[name]
	return k, ok
}

// Names returns the annotation names bound to a kind, sorted.
func (a *Aliases) Names(kind entity.MarkerKind) []string {
	var out []string
	for n, k := range a.kinds {
		if k == kind {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Bind converts parsed annotations into a marker set. Annotations with no bound kind are
// ignored. When several annotations map to the same kind the first one wins and later ones only
// contribute attributes the first did not set.
func (a *Aliases) Bind(anns []Annotation) *Set {
	s := NewSet()
	for _, ann := range anns {
		kind, ok := a.Kind(ann.Name)
		if !ok {
			continue
		}
		attrs := ann.Attrs
		if kind == entity.MarkerColumn {
			attrs = canonicalColumnAttrs(attrs)
		}
		s.merge(kind, attrs)
	}
	return s
}

func canonicalColumnAttrs(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if canon, ok := columnAttrAliases[k]; ok {
			k = canon
		}
		out[k] = v
	}
	return out
}

// Set is an immutable-after-construction marker bag implementing entity.Markers.
type Set struct {
	markers map[entity.MarkerKind]map[string]string
}

var _ entity.Markers = (*Set)(nil)

// NewSet creates an empty marker set.
func NewSet() *Set {
	return &Set{markers: make(map[entity.MarkerKind]map[string]string)}
}

// Put adds a marker with its attributes, replacing any marker of the same kind.
func (s *Set) Put(kind entity.MarkerKind, attrs map[string]string) *Set {
	cp := make(map[string]string, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	s.markers[kind] = cp
	return s
}

func (s *Set) merge(kind entity.MarkerKind, attrs map[string]string) {
	existing, ok := s.markers[kind]
	if !ok {
		s.Put(kind, attrs)
		return
	}
	for k, v := range attrs {
		if _, set := existing[k]; !set {
			existing[k] = v
		}
	}
}

// HasMarker implements entity.Markers.
func (s *Set) HasMarker(kind entity.MarkerKind) bool {
	_, ok := s.markers[kind]
	return ok
}

// MarkerValue implements entity.Markers.
func (s *Set) MarkerValue(kind entity.MarkerKind, attribute string) (string, bool) {
	attrs, ok := s.markers[kind]
	if !ok {
		return "", false
	}
	v, ok := attrs[attribute]
	return v, ok
}

// Len returns the number of markers in the set.
func (s *Set) Len() int {
	return len(s.markers)
}
