// Package emitter renders metadata descriptors as querydsl-sql companion classes.
//
// The layout is fixed and independent of the generator version, so regenerating an unchanged
// entity yields the same bytes except for the generation timestamp.
package emitter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stokaro/qmeta/core/metadata"
	"github.com/stokaro/qmeta/core/naming"
	"github.com/stokaro/qmeta/core/typemap"
)

// DefaultGenerator is the generator name written into the @Generated annotation.
const DefaultGenerator = "github.com/stokaro/qmeta"

// TimestampLayout is the layout of the embedded generation timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

const imports = `import static com.querydsl.core.types.PathMetadataFactory.*;
import com.querydsl.core.types.dsl.*;
import com.querydsl.core.types.PathMetadata;
import javax.annotation.processing.Generated;
import com.querydsl.core.types.Path;
import com.querydsl.sql.ColumnMetadata;
import java.sql.Types;
`

const indent = "    "

// Emitter renders companion classes. The zero value is not usable, create one with New.
type Emitter struct {
	generator string
	now       func() time.Time
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithGenerator sets the generator name written into the @Generated annotation.
func WithGenerator(name string) Option {
	return func(e *Emitter) {
		if name != "" {
			e.generator = name
		}
	}
}

// WithClock sets the clock providing the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{
		generator: DefaultGenerator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileName returns the source file name of the companion class of d, relative to the source
// root: the package path followed by Q<Name>.java.
func FileName(d *metadata.EntityDescriptor) string {
	name := d.CompanionName + ".java"
	if d.Package == "" {
		return name
	}
	return strings.ReplaceAll(d.Package, ".", "/") + "/" + name
}

// Emit renders the companion class of d.
func (e *Emitter) Emit(d *metadata.EntityDescriptor) []byte {
	w := &writer{}
	stamp := e.now().Format(TimestampLayout)
	q := d.CompanionName

	if d.Package != "" {
		w.linef("package %s;", d.Package)
		w.blank()
	}
	w.raw(imports)
	w.blank()

	w.line("/**")
	w.linef(" * %s is a querydsl-sql query type for %s", q, d.QualifiedName)
	w.linef(" * @since %s", stamp)
	w.line(" */")
	w.linef("@Generated(value = %s, date = %s, comments = %s)",
		typemap.Quote(e.generator), typemap.Quote(stamp), typemap.Quote("Generated from "+d.QualifiedName))
	w.linef("public class %s extends com.querydsl.sql.RelationalPathBase<%s> {", q, q)
	w.blank()

	w.linef("%spublic static final %s %s = new %s(%s);", indent, q, instanceName(d), q, typemap.Quote(d.Table))
	w.blank()

	for _, col := range d.Columns {
		w.doc(col.Doc)
		p := typemap.PathOf(col)
		w.linef("%spublic final %s %s = %s;", indent, p.Type, col.Field, p.Init(col.Field))
		w.blank()
	}

	if d.HasPrimaryKey() {
		w.doc("Primary key.")
		w.linef("%spublic final com.querydsl.sql.PrimaryKey<%s> %s = createPrimaryKey(%s);", indent, q, primaryKeyName(d), d.PrimaryKey)
		w.blank()
	}

	e.constructors(w, d)

	w.linef("%spublic void addMetadata() {", indent)
	for i, col := range d.Columns {
		w.linef("%s%saddMetadata(%s, ColumnMetadata.named(%s).withIndex(%d).%s);",
			indent, indent, col.Field, typemap.Quote(col.Column), i+1, typemap.Map(col))
	}
	w.linef("%s}", indent)
	w.line("}")

	return w.Bytes()
}

func (e *Emitter) constructors(w *writer, d *metadata.EntityDescriptor) {
	q := d.CompanionName
	schema := typemap.Quote(d.Schema)
	table := typemap.Quote(d.Table)

	ctor := func(params, super string) {
		w.linef("%spublic %s(%s) {", indent, q, params)
		w.linef("%s%ssuper(%s);", indent, indent, super)
		w.linef("%s%saddMetadata();", indent, indent)
		w.linef("%s}", indent)
		w.blank()
	}

	ctor("String variable", fmt.Sprintf("%s.class, forVariable(variable), %s, %s", q, schema, table))
	ctor("String variable, String schema, String table", q+".class, forVariable(variable), schema, table")
	ctor("Path<? extends "+q+"> path", fmt.Sprintf("path.getType(), path.getMetadata(), %s, %s", schema, table))
	ctor("PathMetadata metadata", fmt.Sprintf("%s.class, metadata, %s, %s", q, schema, table))
}

// instanceName derives the name of the static default instance. A name that would clash with a
// member of the class or with a Java keyword gets a numeric suffix.
func instanceName(d *metadata.EntityDescriptor) string {
	taken := columnFields(d)
	if d.HasPrimaryKey() {
		taken[primaryKeyName(d)] = true
	}
	base := naming.LowerFirst(d.SimpleName)
	name := base
	for i := 1; taken[name] || javaKeywords[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	return name
}

// primaryKeyName names the primary key member, suffixed when a column field already uses
// primaryKey.
func primaryKeyName(d *metadata.EntityDescriptor) string {
	taken := columnFields(d)
	name := "primaryKey"
	for i := 1; taken[name]; i++ {
		name = "primaryKey" + strconv.Itoa(i)
	}
	return name
}

func columnFields(d *metadata.EntityDescriptor) map[string]bool {
	taken := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		taken[c.Field] = true
	}
	return taken
}

type writer struct {
	bytes.Buffer
}

func (w *writer) line(s string) {
	w.WriteString(s)
	w.WriteByte('\n')
}

func (w *writer) linef(format string, args ...any) {
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *writer) raw(s string) {
	w.WriteString(s)
}

func (w *writer) blank() {
	w.WriteByte('\n')
}

// doc writes a member documentation comment. Blank documentation writes nothing.
func (w *writer) doc(text string) {
	lines := docLines(text)
	if len(lines) == 0 {
		return
	}
	w.line(indent + "/**")
	for _, l := range lines {
		if l == "" {
			w.line(indent + " *")
			continue
		}
		w.line(indent + " * " + l)
	}
	w.line(indent + " */")
}

// docLines normalises documentation text into comment lines: leading '*' decorations and
// surrounding blank lines are removed and "*/" is neutralised.
func docLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		l = strings.TrimSpace(strings.TrimPrefix(l, "*"))
		l = strings.ReplaceAll(l, "*/", "*&#47;")
		lines = append(lines, l)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true, "case": true,
	"catch": true, "char": true, "class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true, "extends": true, "final": true,
	"finally": true, "float": true, "for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true, "return": true,
	"short": true, "static": true, "strictfp": true, "super": true, "switch": true,
	"synchronized": true, "this": true, "throw": true, "throws": true, "transient": true, "try": true,
	"void": true, "volatile": true, "while": true, "true": true, "false": true, "null": true,
}
