// Package entity defines the input boundary of the metadata pipeline: structural entity
// declarations as supplied by a host (a manifest loader, a compiler plugin, a test) together with
// a narrow capability for querying the declarative markers attached to them.
//
// Nothing in this package knows how markers are written down. Adapters such as the annotation
// package translate a concrete representation into the Markers capability.
package entity

import "strings"

// RootType is the universal root of every inheritance chain. A declaration whose supertype is
// empty or RootType has no persisted ancestors.
const RootType = "java.lang.Object"

// MarkerKind identifies one kind of declarative marker the pipeline understands.
type MarkerKind string

const (
	// MarkerTable names the mapped table. Attributes: value, name, schema.
	MarkerTable MarkerKind = "table"
	// MarkerColumn overrides the column mapping of a field. Attributes: value, name, nullable,
	// length, precision, scale, definition.
	MarkerColumn MarkerKind = "column"
	// MarkerID marks the primary-key field.
	MarkerID MarkerKind = "id"
	// MarkerTransient excludes a field from persistence.
	MarkerTransient MarkerKind = "transient"
	// MarkerJdbcTypeCode carries an explicit JDBC type code in its value attribute.
	MarkerJdbcTypeCode MarkerKind = "jdbc_type_code"
	// MarkerNotNull declares a field non-nullable.
	MarkerNotNull MarkerKind = "not_null"
)

// MarkerKinds lists every marker kind in a stable order.
var MarkerKinds = []MarkerKind{
	MarkerTable,
	MarkerColumn,
	MarkerID,
	MarkerTransient,
	MarkerJdbcTypeCode,
	MarkerNotNull,
}

// Markers is the read-only marker lookup attached to a type or a field.
type Markers interface {
	// HasMarker reports whether a marker of the given kind is present.
	HasMarker(kind MarkerKind) bool
	// MarkerValue returns the value of an attribute of the given marker. The boolean is false
	// when either the marker or the attribute is absent.
	MarkerValue(kind MarkerKind, attribute string) (string, bool)
}

// Modifier is a bit set of field modifiers relevant to persistence.
type Modifier uint8

const (
	ModStatic Modifier = 1 << iota
	ModFinal
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

// ParseModifier converts a source modifier keyword. Keywords without persistence meaning
// (private, protected, volatile, ...) yield zero.
func ParseModifier(s string) Modifier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static":
		return ModStatic
	case "final":
		return ModFinal
	}
	return 0
}

// FieldDecl is one declared field of an entity, in declaration order.
type FieldDecl struct {
	Name      string   // source identifier
	TypeName  string   // declared value type, fully qualified where possible (java.lang.String, int)
	Modifiers Modifier // static/final bits
	Doc       string   // documentation comment text, without comment delimiters
	Markers   Markers  // never nil once normalised by a Registry
}

// Decl is one entity declaration.
type Decl struct {
	Package    string // package name, empty for the default package
	SimpleName string
	Supertype  string // qualified supertype name, empty or RootType for none
	Fields     []FieldDecl
	Markers    Markers // type-level markers, never nil once normalised by a Registry
	Source     string  // origin of the declaration (file name), informational
}

// QualifiedName returns the package-qualified name of the declaration.
func (d *Decl) QualifiedName() string {
	if d.Package == "" {
		return d.SimpleName
	}
	return d.Package + "." + d.SimpleName
}

// HasSupertype reports whether the declaration extends anything other than the root type.
func (d *Decl) HasSupertype() bool {
	return d.Supertype != "" && d.Supertype != RootType
}

// NoMarkers is a Markers implementation with nothing in it.
var NoMarkers Markers = noMarkers{}

type noMarkers struct{}

func (noMarkers) HasMarker(MarkerKind) bool { return false }

func (noMarkers) MarkerValue(MarkerKind, string) (string, bool) { return "", false }
