// Package typemap maps column value kinds to querydsl-sql column type descriptors and to the path
// type used for the companion field. The table here is part of the generated output contract:
// changing a row changes the generated source of every consumer.
package typemap

import (
	"math"
	"strconv"
	"strings"

	"github.com/stokaro/qmeta/core/metadata"
)

// Unbounded is the size emitted for JSON columns.
const Unbounded = math.MaxInt32

// Descriptor is a canonical column type descriptor.
type Descriptor struct {
	Code      string // java.sql.Types constant name
	Size      int
	Digits    int
	HasDigits bool
	NotNull   bool
}

// String renders the descriptor as a ColumnMetadata builder chain, e.g.
// `ofType(Types.NUMERIC).withSize(12).withDigits(4).notNull()`.
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString("ofType(Types.")
	b.WriteString(d.Code)
	b.WriteString(").withSize(")
	b.WriteString(strconv.Itoa(d.Size))
	b.WriteByte(')')
	if d.HasDigits {
		b.WriteString(".withDigits(")
		b.WriteString(strconv.Itoa(d.Digits))
		b.WriteByte(')')
	}
	if d.NotNull {
		b.WriteString(".notNull()")
	}
	return b.String()
}

type rule struct {
	code      string
	size      int
	digits    int
	hasDigits bool
}

// fixed holds the kinds whose descriptor does not depend on hints.
var fixed = map[metadata.Kind]rule{
	metadata.KindLong:          {code: "BIGINT", size: 19},
	metadata.KindDate:          {code: "TIMESTAMP", size: 19},
	metadata.KindTimestamp:     {code: "TIMESTAMP", size: 19},
	metadata.KindLocalDateTime: {code: "TIMESTAMP", size: 29, digits: 6, hasDigits: true},
	metadata.KindLocalDate:     {code: "DATE", size: 10},
	metadata.KindLocalTime:     {code: "TIME", size: 10},
	metadata.KindFloat:         {code: "FLOAT", size: 5},
	metadata.KindDouble:        {code: "DOUBLE", size: 5},
	metadata.KindByte:          {code: "CHAR", size: 1},
	metadata.KindShort:         {code: "NUMERIC", size: 5},
	metadata.KindBoolean:       {code: "BIT", size: 1},
}

// Map returns the column type descriptor of a column. It is total: kinds without a rule fall
// through to the generic text-or-opaque branch.
func Map(col metadata.ColumnSpec) Descriptor {
	d := describe(col)
	d.NotNull = !col.Nullable
	return d
}

func describe(col metadata.ColumnSpec) Descriptor {
	switch col.Kind {
	case metadata.KindString:
		if col.JSON {
			return Descriptor{Code: "VARCHAR", Size: Unbounded}
		}
		return Descriptor{Code: "VARCHAR", Size: col.Hints.Length}
	case metadata.KindInteger:
		return integer(col.Hints.Definition)
	case metadata.KindBigDecimal:
		return Descriptor{Code: "NUMERIC", Size: col.Hints.Precision, Digits: col.Hints.Scale, HasDigits: true}
	}

	if r, ok := fixed[col.Kind]; ok {
		return Descriptor{Code: r.code, Size: r.size, Digits: r.digits, HasDigits: r.hasDigits}
	}

	if col.JSON {
		return Descriptor{Code: "OTHER", Size: Unbounded}
	}
	return Descriptor{Code: "VARCHAR", Size: col.Hints.Length}
}

// integer disambiguates 32-bit integer columns by their column definition. The match is a plain
// substring test, as written in the definition.
func integer(definition string) Descriptor {
	switch {
	case strings.Contains(definition, "tinyint"):
		return Descriptor{Code: "TINYINT", Size: 3}
	case strings.Contains(definition, "smallint"):
		return Descriptor{Code: "SMALLINT", Size: 3}
	default:
		return Descriptor{Code: "INTEGER", Size: 10}
	}
}
