package typemap_test

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/qmeta/core/metadata"
	"github.com/stokaro/qmeta/core/typemap"
)

func column(kind metadata.Kind, mutate ...func(*metadata.ColumnSpec)) metadata.ColumnSpec {
	col := metadata.ColumnSpec{Field: "f", Column: "f", Kind: kind, Nullable: true, Hints: metadata.DefaultHints()}
	for _, m := range mutate {
		m(&col)
	}
	return col
}

func json(col *metadata.ColumnSpec) { col.JSON = true }

func notNull(col *metadata.ColumnSpec) { col.Nullable = false }

func length(n int) func(*metadata.ColumnSpec) {
	return func(col *metadata.ColumnSpec) { col.Hints.Length = n }
}

func definition(def string) func(*metadata.ColumnSpec) {
	return func(col *metadata.ColumnSpec) { col.Hints.Definition = def }
}

func TestMap(t *testing.T) {
	tests := []struct {
		name     string
		col      metadata.ColumnSpec
		expected string
	}{
		{name: "string", col: column(metadata.KindString, length(64)), expected: "ofType(Types.VARCHAR).withSize(64)"},
		{name: "string default length", col: column(metadata.KindString), expected: "ofType(Types.VARCHAR).withSize(0)"},
		{name: "json string", col: column(metadata.KindString, json, length(64)), expected: "ofType(Types.VARCHAR).withSize(2147483647)"},
		{name: "integer", col: column(metadata.KindInteger), expected: "ofType(Types.INTEGER).withSize(10)"},
		{name: "tinyint", col: column(metadata.KindInteger, definition("tinyint default 0")), expected: "ofType(Types.TINYINT).withSize(3)"},
		{name: "smallint", col: column(metadata.KindInteger, definition("smallint")), expected: "ofType(Types.SMALLINT).withSize(3)"},
		{name: "upper case definition is not matched", col: column(metadata.KindInteger, definition("SMALLINT")), expected: "ofType(Types.INTEGER).withSize(10)"},
		{name: "long", col: column(metadata.KindLong), expected: "ofType(Types.BIGINT).withSize(19)"},
		{name: "date", col: column(metadata.KindDate), expected: "ofType(Types.TIMESTAMP).withSize(19)"},
		{name: "timestamp", col: column(metadata.KindTimestamp), expected: "ofType(Types.TIMESTAMP).withSize(19)"},
		{name: "local date time", col: column(metadata.KindLocalDateTime), expected: "ofType(Types.TIMESTAMP).withSize(29).withDigits(6)"},
		{name: "local date", col: column(metadata.KindLocalDate), expected: "ofType(Types.DATE).withSize(10)"},
		{name: "local time", col: column(metadata.KindLocalTime), expected: "ofType(Types.TIME).withSize(10)"},
		{name: "big decimal defaults", col: column(metadata.KindBigDecimal), expected: "ofType(Types.NUMERIC).withSize(0).withDigits(2)"},
		{
			name: "big decimal declared",
			col: column(metadata.KindBigDecimal, func(col *metadata.ColumnSpec) {
				col.Hints.Precision, col.Hints.Scale = 12, 4
			}),
			expected: "ofType(Types.NUMERIC).withSize(12).withDigits(4)",
		},
		{name: "float", col: column(metadata.KindFloat), expected: "ofType(Types.FLOAT).withSize(5)"},
		{name: "double", col: column(metadata.KindDouble), expected: "ofType(Types.DOUBLE).withSize(5)"},
		{name: "byte", col: column(metadata.KindByte), expected: "ofType(Types.CHAR).withSize(1)"},
		{name: "short", col: column(metadata.KindShort), expected: "ofType(Types.NUMERIC).withSize(5)"},
		{name: "boolean", col: column(metadata.KindBoolean), expected: "ofType(Types.BIT).withSize(1)"},
		{name: "other", col: column(metadata.KindOther, length(16)), expected: "ofType(Types.VARCHAR).withSize(16)"},
		{name: "other json", col: column(metadata.KindOther, json), expected: "ofType(Types.OTHER).withSize(2147483647)"},
		{name: "json ignored for fixed kinds", col: column(metadata.KindLong, json), expected: "ofType(Types.BIGINT).withSize(19)"},
		{name: "not null", col: column(metadata.KindLong, notNull), expected: "ofType(Types.BIGINT).withSize(19).notNull()"},
		{name: "not null with digits", col: column(metadata.KindLocalDateTime, notNull), expected: "ofType(Types.TIMESTAMP).withSize(29).withDigits(6).notNull()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(typemap.Map(tt.col).String(), qt.Equals, tt.expected)
		})
	}
}

func TestMap_Deterministic(t *testing.T) {
	c := qt.New(t)

	for k := metadata.KindOther; k <= metadata.KindBoolean; k++ {
		col := column(k, length(7))
		c.Assert(typemap.Map(col), qt.Equals, typemap.Map(col), qt.Commentf("kind %s", k))
	}
}

func TestMap_JSONSize(t *testing.T) {
	c := qt.New(t)

	d := typemap.Map(column(metadata.KindString, json, length(10)))
	c.Assert(d.Size, qt.Equals, math.MaxInt32)
	c.Assert(d.Size, qt.Equals, typemap.Unbounded)
}

func TestPathOf(t *testing.T) {
	tests := []struct {
		name         string
		col          metadata.ColumnSpec
		expectedType string
		expectedInit string
	}{
		{name: "string", col: column(metadata.KindString), expectedType: "StringPath", expectedInit: `createString("f")`},
		{name: "boolean", col: column(metadata.KindBoolean), expectedType: "BooleanPath", expectedInit: `createBoolean("f")`},
		{name: "long", col: column(metadata.KindLong), expectedType: "NumberPath<Long>", expectedInit: `createNumber("f", Long.class)`},
		{
			name:         "big decimal",
			col:          column(metadata.KindBigDecimal),
			expectedType: "NumberPath<java.math.BigDecimal>",
			expectedInit: `createNumber("f", java.math.BigDecimal.class)`,
		},
		{
			name:         "local date time",
			col:          column(metadata.KindLocalDateTime),
			expectedType: "DateTimePath<java.time.LocalDateTime>",
			expectedInit: `createDateTime("f", java.time.LocalDateTime.class)`,
		},
		{
			name: "other",
			col: column(metadata.KindOther, func(col *metadata.ColumnSpec) {
				col.TypeName = "java.util.UUID"
			}),
			expectedType: "SimplePath<java.util.UUID>",
			expectedInit: `createSimple("f", java.util.UUID.class)`,
		},
		{
			name: "generic other is erased",
			col: column(metadata.KindOther, func(col *metadata.ColumnSpec) {
				col.TypeName = "java.util.Map<java.lang.String, java.util.List<java.lang.String>>"
			}),
			expectedType: "SimplePath<java.util.Map>",
			expectedInit: `createSimple("f", java.util.Map.class)`,
		},
		{
			name:         "other without type name",
			col:          column(metadata.KindOther),
			expectedType: "SimplePath<Object>",
			expectedInit: `createSimple("f", Object.class)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			p := typemap.PathOf(tt.col)
			c.Assert(p.Type, qt.Equals, tt.expectedType)
			c.Assert(p.Init(tt.col.Field), qt.Equals, tt.expectedInit)
		})
	}
}

func TestErasure(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "java.util.List<java.lang.String>", expected: "java.util.List"},
		{input: "byte[]", expected: "byte[]"},
		{input: "java.util.Map<K, V>", expected: "java.util.Map"},
		{input: "java.util.UUID", expected: "java.util.UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(typemap.Erasure(tt.input), qt.Equals, tt.expected)
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "orders", expected: `"orders"`},
		{input: `a"b`, expected: `"a\"b"`},
		{input: `a\b`, expected: `"a\\b"`},
		{input: "line\nbreak", expected: `"line\nbreak"`},
		{input: "bell\x07", expected: `"bell\u0007"`},
		{input: "größe", expected: `"größe"`},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(typemap.Quote(tt.input), qt.Equals, tt.expected)
		})
	}
}
