// Package metadata holds the model the generator emits from: one EntityDescriptor per persisted
// type with its ordered list of ColumnSpec values.
//
// Descriptors are assembled once by the collect package and never mutated afterwards. Each one
// is independent of every other descriptor, so emitting them concurrently needs no coordination.
package metadata

// Documented defaults for hints that were not declared.
const (
	DefaultLength    = 0
	DefaultPrecision = 0
	DefaultScale     = 2
	DefaultSchema    = "public"

	// JSONTypeCode is the JDBC type code value that classifies a column as JSON.
	JSONTypeCode = "3001"
)

// EntityDescriptor describes the table mapping of one entity.
type EntityDescriptor struct {
	Package       string // package of the entity, empty for the default package
	QualifiedName string
	SimpleName    string
	CompanionName string // "Q" + SimpleName
	Table         string
	Schema        string
	Columns       []ColumnSpec

	// PrimaryKey is the path-field identifier of the primary-key column, empty when none.
	PrimaryKey string

	// Collisions lists the fields dropped because an earlier field already claimed their column
	// name or identifier.
	Collisions []Collision
}

// HasPrimaryKey reports whether a primary key was recorded.
func (d *EntityDescriptor) HasPrimaryKey() bool {
	return d.PrimaryKey != ""
}

// Column returns the column whose path-field identifier is field.
func (d *EntityDescriptor) Column(field string) (ColumnSpec, bool) {
	for _, c := range d.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// ColumnSpec describes one persisted field.
type ColumnSpec struct {
	Field    string // source field identifier, also the path-field identifier
	Column   string // resolved database column name
	Kind     Kind
	TypeName string // declared type name as written in the declaration
	Nullable bool
	JSON     bool
	Doc      string // documentation carried over from the source field
	Owner    string // qualified name of the declaration that declared the field
	Hints    Hints
}

// Hints are the type-specific size hints of a column.
type Hints struct {
	Length     int
	Precision  int
	Scale      int
	Definition string // raw column definition, used to disambiguate integer subkinds
}

// DefaultHints returns the hints used when no marker declares any.
func DefaultHints() Hints {
	return Hints{
		Length:    DefaultLength,
		Precision: DefaultPrecision,
		Scale:     DefaultScale,
	}
}

// Collision records a field skipped by first-occurrence-wins deduplication.
type Collision struct {
	Field     string // identifier of the dropped field
	Column    string // column name the dropped field resolved to
	Owner     string // declaration that declared the dropped field
	KeptField string // identifier of the field that was kept
	KeptOwner string // declaration that declared the kept field
	Reason    CollisionReason
}

// CollisionReason tells which uniqueness rule a dropped field violated.
type CollisionReason string

const (
	CollisionColumn     CollisionReason = "column"
	CollisionIdentifier CollisionReason = "identifier"
)
