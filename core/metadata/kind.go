package metadata

import "strings"

// Kind is the closed set of value types the type mapper knows. Every other declared type is
// KindOther and keeps its raw name in ColumnSpec.TypeName.
type Kind int

const (
	KindOther Kind = iota
	KindString
	KindInteger
	KindLong
	KindDate // java.util.Date
	KindTimestamp
	KindLocalDateTime
	KindLocalDate
	KindLocalTime
	KindBigDecimal
	KindFloat
	KindDouble
	KindByte
	KindShort
	KindBoolean
)

var kindNames = [...]string{
	KindOther:         "other",
	KindString:        "string",
	KindInteger:       "integer",
	KindLong:          "long",
	KindDate:          "date",
	KindTimestamp:     "timestamp",
	KindLocalDateTime: "local_date_time",
	KindLocalDate:     "local_date",
	KindLocalTime:     "local_time",
	KindBigDecimal:    "big_decimal",
	KindFloat:         "float",
	KindDouble:        "double",
	KindByte:          "byte",
	KindShort:         "short",
	KindBoolean:       "boolean",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "other"
	}
	return kindNames[k]
}

// kindsByType maps the qualified names and primitives that classify to a known kind.
var kindsByType = map[string]Kind{
	"java.lang.String":        KindString,
	"java.lang.Integer":       KindInteger,
	"int":                     KindInteger,
	"java.lang.Long":          KindLong,
	"long":                    KindLong,
	"java.util.Date":          KindDate,
	"java.sql.Timestamp":      KindTimestamp,
	"java.time.LocalDateTime": KindLocalDateTime,
	"java.time.LocalDate":     KindLocalDate,
	"java.time.LocalTime":     KindLocalTime,
	"java.math.BigDecimal":    KindBigDecimal,
	"java.lang.Float":         KindFloat,
	"float":                   KindFloat,
	"java.lang.Double":        KindDouble,
	"double":                  KindDouble,
	"java.lang.Byte":          KindByte,
	"byte":                    KindByte,
	"java.lang.Short":         KindShort,
	"short":                   KindShort,
	"java.lang.Boolean":       KindBoolean,
	"boolean":                 KindBoolean,
}

// boxed maps primitives that stay KindOther to their wrapper type.
var boxed = map[string]string{
	"char": "java.lang.Character",
}

// KindOf classifies a declared type name. Annotations written inside the type
// (`java.lang.@NonNull String`) are not expected; the name must already be plain.
func KindOf(typeName string) Kind {
	if k, ok := kindsByType[strings.TrimSpace(typeName)]; ok {
		return k
	}
	return KindOther
}

// BoxedName returns the reference-type spelling of a type name: primitives without a kind of
// their own are boxed, everything else is returned trimmed.
func BoxedName(typeName string) string {
	typeName = strings.TrimSpace(typeName)
	if b, ok := boxed[typeName]; ok {
		return b
	}
	return typeName
}
