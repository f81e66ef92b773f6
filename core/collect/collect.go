// Package collect turns entity declarations into metadata descriptors. It walks the supertype
// chain base-first, applies the ignore rules, resolves column names and hints from markers and
// deduplicates columns so the first occurrence of a column name wins.
package collect

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/stokaro/qmeta/core/entity"
	"github.com/stokaro/qmeta/core/metadata"
	"github.com/stokaro/qmeta/core/naming"
)

// DefaultMaxDepth bounds the supertype walk. Host type systems guarantee acyclic chains; the bound
// only protects against broken lookup tables.
const DefaultMaxDepth = 64

// ErrInheritanceTooDeep is returned when a supertype chain exceeds the configured depth.
var ErrInheritanceTooDeep = errors.New("inheritance chain too deep")

// Lookup resolves a qualified supertype name. *entity.Registry implements it.
type Lookup interface {
	Lookup(qualifiedName string) (*entity.Decl, bool)
}

// Collector collects the persisted columns of entity declarations. It holds no per-entity state
// and may be shared between goroutines.
type Collector struct {
	lookup        Lookup
	logger        *slog.Logger
	maxDepth      int
	defaultSchema string
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used to report collisions and unresolved supertypes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(c *Collector) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithDefaultSchema sets the schema used when the table marker names none.
func WithDefaultSchema(schema string) Option {
	return func(c *Collector) {
		if schema != "" {
			c.defaultSchema = schema
		}
	}
}

// New creates a Collector resolving supertypes through lookup. A nil lookup resolves nothing,
// every supertype is then treated as the root.
func New(lookup Lookup, opts ...Option) *Collector {
	c := &Collector{
		lookup:        lookup,
		logger:        slog.Default(),
		maxDepth:      DefaultMaxDepth,
		defaultSchema: metadata.DefaultSchema,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of collecting one declaration.
type Result struct {
	Columns    []metadata.ColumnSpec
	PrimaryKey string // path-field identifier, empty when no field is marked
	Collisions []metadata.Collision
}

type state struct {
	root     string
	result   Result
	byColumn map[string]int // column name -> index in result.Columns
	byField  map[string]int // field identifier -> index in result.Columns
}

// Collect returns the ordered, deduplicated columns of decl including those inherited from its
// supertypes.
func (c *Collector) Collect(decl *entity.Decl) (Result, error) {
	st := &state{
		root:     decl.QualifiedName(),
		byColumn: make(map[string]int),
		byField:  make(map[string]int),
	}
	if err := c.walk(decl, 0, st); err != nil {
		return Result{}, err
	}
	return st.result, nil
}

func (c *Collector) walk(d *entity.Decl, depth int, st *state) error {
	if depth > c.maxDepth {
		return fmt.Errorf("%w: %s exceeds %d levels", ErrInheritanceTooDeep, st.root, c.maxDepth)
	}

	if d.HasSupertype() {
		super, ok := c.resolve(d.Supertype)
		if ok {
			if err := c.walk(super, depth+1, st); err != nil {
				return err
			}
		} else {
			c.logger.Warn("Supertype is not declared, treating it as the root type",
				"entity", st.root, "declared_by", d.QualifiedName(), "supertype", d.Supertype)
		}
	}

	for i := range d.Fields {
		c.field(d, &d.Fields[i], st)
	}
	return nil
}

func (c *Collector) resolve(name string) (*entity.Decl, bool) {
	if c.lookup == nil {
		return nil, false
	}
	return c.lookup.Lookup(name)
}

func (c *Collector) field(owner *entity.Decl, f *entity.FieldDecl, st *state) {
	m := markersOf(f.Markers)
	if ignored(f, m) {
		return
	}

	column := columnName(f.Name, m)
	if kept, ok := st.byColumn[column]; ok {
		c.collide(f, owner, column, st.result.Columns[kept], metadata.CollisionColumn, st)
		return
	}
	if kept, ok := st.byField[f.Name]; ok {
		c.collide(f, owner, column, st.result.Columns[kept], metadata.CollisionIdentifier, st)
		return
	}

	spec := metadata.ColumnSpec{
		Field:    f.Name,
		Column:   column,
		Kind:     metadata.KindOf(f.TypeName),
		TypeName: metadata.BoxedName(f.TypeName),
		Nullable: nullable(m),
		JSON:     isJSON(m),
		Doc:      f.Doc,
		Owner:    owner.QualifiedName(),
		Hints:    hints(m),
	}
	st.byColumn[column] = len(st.result.Columns)
	st.byField[f.Name] = len(st.result.Columns)
	st.result.Columns = append(st.result.Columns, spec)

	if m.HasMarker(entity.MarkerID) {
		if st.result.PrimaryKey == "" {
			st.result.PrimaryKey = f.Name
		} else {
			c.logger.Debug("Ignoring additional primary key marker",
				"entity", st.root, "field", f.Name, "primary_key", st.result.PrimaryKey)
		}
	}
}

func (c *Collector) collide(f *entity.FieldDecl, owner *entity.Decl, column string, kept metadata.ColumnSpec, reason metadata.CollisionReason, st *state) {
	col := metadata.Collision{
		Field:     f.Name,
		Column:    column,
		Owner:     owner.QualifiedName(),
		KeptField: kept.Field,
		KeptOwner: kept.Owner,
		Reason:    reason,
	}
	st.result.Collisions = append(st.result.Collisions, col)
	c.logger.Warn("Field collides with an earlier field, keeping the first one",
		"entity", st.root,
		"field", col.Owner+"."+col.Field,
		"column", col.Column,
		"kept", col.KeptOwner+"."+col.KeptField,
		"reason", string(reason))
}

func markersOf(m entity.Markers) entity.Markers {
	if m == nil {
		return entity.NoMarkers
	}
	return m
}

func ignored(f *entity.FieldDecl, m entity.Markers) bool {
	return f.Modifiers.Has(entity.ModStatic) ||
		f.Modifiers.Has(entity.ModFinal) ||
		m.HasMarker(entity.MarkerTransient)
}

func columnName(field string, m entity.Markers) string {
	for _, attr := range []string{"value", "name"} {
		if v, ok := m.MarkerValue(entity.MarkerColumn, attr); ok && v != "" {
			return v
		}
	}
	return naming.ColumnName(field)
}

func nullable(m entity.Markers) bool {
	if m.HasMarker(entity.MarkerNotNull) {
		return false
	}
	v, ok := m.MarkerValue(entity.MarkerColumn, "nullable")
	return !ok || !strings.EqualFold(strings.TrimSpace(v), "false")
}

func isJSON(m entity.Markers) bool {
	v, ok := m.MarkerValue(entity.MarkerJdbcTypeCode, "value")
	return ok && v == metadata.JSONTypeCode
}

// hints reads the size hints of the column marker. A zero precision or scale counts as
// undeclared, so a zero scale still yields metadata.DefaultScale.
func hints(m entity.Markers) metadata.Hints {
	h := metadata.DefaultHints()
	if n, ok := intAttr(m, "length"); ok {
		h.Length = n
	}
	if n, ok := intAttr(m, "precision"); ok && n != 0 {
		h.Precision = n
	}
	if n, ok := intAttr(m, "scale"); ok && n != 0 {
		h.Scale = n
	}
	if v, ok := m.MarkerValue(entity.MarkerColumn, "definition"); ok {
		h.Definition = v
	}
	return h
}

func intAttr(m entity.Markers, attr string) (int, bool) {
	v, ok := m.MarkerValue(entity.MarkerColumn, attr)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}
