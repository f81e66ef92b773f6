package collect

import (
	"github.com/stokaro/qmeta/core/entity"
	"github.com/stokaro/qmeta/core/metadata"
)

// Describe assembles the complete descriptor of a declaration: table mapping plus collected
// columns.
//
// The table name is the table marker's value (or name) attribute, falling back to the simple
// name. The schema is the marker's schema attribute, falling back to the collector's default
// schema.
func (c *Collector) Describe(decl *entity.Decl) (*metadata.EntityDescriptor, error) {
	res, err := c.Collect(decl)
	if err != nil {
		return nil, err
	}

	m := markersOf(decl.Markers)
	return &metadata.EntityDescriptor{
		Package:       decl.Package,
		QualifiedName: decl.QualifiedName(),
		SimpleName:    decl.SimpleName,
		CompanionName: "Q" + decl.SimpleName,
		Table:         firstNonEmpty(m, entity.MarkerTable, decl.SimpleName, "value", "name"),
		Schema:        firstNonEmpty(m, entity.MarkerTable, c.defaultSchema, "schema"),
		Columns:       res.Columns,
		PrimaryKey:    res.PrimaryKey,
		Collisions:    res.Collisions,
	}, nil
}

func firstNonEmpty(m entity.Markers, kind entity.MarkerKind, fallback string, attrs ...string) string {
	for _, attr := range attrs {
		if v, ok := m.MarkerValue(kind, attr); ok && v != "" {
			return v
		}
	}
	return fallback
}
