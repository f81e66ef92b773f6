package typemap

import (
	"strconv"
	"strings"

	"github.com/stokaro/qmeta/core/metadata"
)

// Path is the rendering strategy of a companion path field.
type Path struct {
	Type    string // declared field type, e.g. NumberPath<Long>
	Factory string // RelationalPathBase factory method, e.g. createNumber
	Class   string // class literal passed to the factory, empty when the factory takes none
}

// Init renders the field initialiser, e.g. `createNumber("id", Long.class)`.
func (p Path) Init(field string) string {
	if p.Class == "" {
		return p.Factory + "(" + Quote(field) + ")"
	}
	return p.Factory + "(" + Quote(field) + ", " + p.Class + ")"
}

// Quote renders s as a Java string literal. Non-ASCII printable characters are kept as they are;
// control characters use \uXXXX escapes.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				b.WriteString(strings.Repeat("0", 4-len(hex)))
				b.WriteString(hex)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

var paths = map[metadata.Kind]Path{
	metadata.KindString:        {Type: "StringPath", Factory: "createString"},
	metadata.KindBoolean:       {Type: "BooleanPath", Factory: "createBoolean"},
	metadata.KindInteger:       number("Integer"),
	metadata.KindLong:          number("Long"),
	metadata.KindFloat:         number("Float"),
	metadata.KindDouble:        number("Double"),
	metadata.KindByte:          number("Byte"),
	metadata.KindShort:         number("Short"),
	metadata.KindBigDecimal:    number("java.math.BigDecimal"),
	metadata.KindDate:          dateTime("java.util.Date"),
	metadata.KindTimestamp:     dateTime("java.sql.Timestamp"),
	metadata.KindLocalDateTime: dateTime("java.time.LocalDateTime"),
	metadata.KindLocalDate:     dateTime("java.time.LocalDate"),
	metadata.KindLocalTime:     dateTime("java.time.LocalTime"),
}

func number(t string) Path {
	return Path{Type: "NumberPath<" + t + ">", Factory: "createNumber", Class: t + ".class"}
}

func dateTime(t string) Path {
	return Path{Type: "DateTimePath<" + t + ">", Factory: "createDateTime", Class: t + ".class"}
}

// PathOf returns the path rendering strategy of a column. Unrecognised kinds become a SimplePath
// over the erased declared type, since a class literal cannot carry type arguments.
func PathOf(col metadata.ColumnSpec) Path {
	if p, ok := paths[col.Kind]; ok {
		return p
	}
	t := Erasure(col.TypeName)
	if t == "" {
		t = "Object"
	}
	return Path{Type: "SimplePath<" + t + ">", Factory: "createSimple", Class: t + ".class"}
}

// Erasure strips type arguments from a type name: java.util.List<java.lang.String> becomes
// java.util.List. Array brackets are kept.
func Erasure(typeName string) string {
	var b strings.Builder
	depth := 0
	for _, r := range typeName {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0 && r != ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
