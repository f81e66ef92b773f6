// Package annotation adapts written annotations (`@Column(value = "order_no", length = 32)`) to
// the entity.Markers capability. It knows the annotation names used by Spring Data Relational,
// Jakarta/Javax Persistence, Hibernate and the bean-validation APIs and maps each one to a
// marker kind.
package annotation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ErrSyntax is returned for annotation text that cannot be parsed.
var ErrSyntax = errors.New("annotation syntax error")

// Annotation is a parsed annotation: its name as written and its attribute values rendered as
// plain strings. A single unnamed argument is stored under "value".
type Annotation struct {
	Name  string
	Attrs map[string]string
}

// knownConstants resolves constant references to the value the host compiler would see.
var knownConstants = map[string]string{
	"SqlTypes.JSON":                    "3001",
	"org.hibernate.type.SqlTypes.JSON": "3001",
	"Types.OTHER":                      "1111",
	"java.sql.Types.OTHER":             "1111",
}

// ResolveConstant returns the value of a known constant reference such as SqlTypes.JSON, or ref
// unchanged.
func ResolveConstant(ref string) string {
	if v, ok := knownConstants[ref]; ok {
		return v
	}
	return ref
}

// Parse parses one annotation.
//
// Accepted forms:
//
//	@Id
//	@Column("order_no")
//	@Column(value = "order_no", nullable = false, length = 32)
//	@JdbcTypeCode(SqlTypes.JSON)
//
// The leading '@' is optional. Array values ({"a", "b"}) are joined with commas.
func Parse(text string) (Annotation, error) {
	p := &parser{src: strings.TrimSpace(text)}
	ann, err := p.annotation()
	if err != nil {
		return Annotation{}, fmt.Errorf("%w: %q: %v", ErrSyntax, text, err)
	}
	return ann, nil
}

// String renders the annotation back in its canonical written form with attributes sorted by name.
func (a Annotation) String() string {
	if len(a.Attrs) == 0 {
		return "@" + a.Name
	}
	keys := make([]string, 0, len(a.Attrs))
	for k := range a.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.Quote(a.Attrs[k])
	}
	return "@" + a.Name + "(" + strings.Join(parts, ", ") + ")"
}

type parser struct {
	src string
	pos int
}

func (p *parser) annotation() (Annotation, error) {
	p.skipSpace()
	if p.peek() == '@' {
		p.pos++
	}
	name := p.qualifiedName()
	if name == "" {
		return Annotation{}, fmt.Errorf("missing annotation name at offset %d", p.pos)
	}
	ann := Annotation{Name: name, Attrs: map[string]string{}}

	p.skipSpace()
	if p.eof() {
		return ann, nil
	}
	if p.peek() != '(' {
		return Annotation{}, fmt.Errorf("unexpected %q at offset %d", p.peek(), p.pos)
	}
	p.pos++
	if err := p.arguments(ann.Attrs); err != nil {
		return Annotation{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return Annotation{}, fmt.Errorf("trailing input at offset %d", p.pos)
	}
	return ann, nil
}

func (p *parser) arguments(attrs map[string]string) error {
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return nil
	}

	// A lone value is shorthand for value = ...
	start := p.pos
	if key := p.qualifiedName(); key != "" && !strings.Contains(key, ".") {
		p.skipSpace()
		if p.peek() == '=' {
			p.pos = start
			return p.namedArguments(attrs)
		}
	}
	p.pos = start
	v, err := p.value()
	if err != nil {
		return err
	}
	attrs["value"] = v
	p.skipSpace()
	if p.peek() != ')' {
		return fmt.Errorf("expected ')' at offset %d", p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) namedArguments(attrs map[string]string) error {
	for {
		p.skipSpace()
		key := p.qualifiedName()
		if key == "" {
			return fmt.Errorf("expected attribute name at offset %d", p.pos)
		}
		p.skipSpace()
		if p.peek() != '=' {
			return fmt.Errorf("expected '=' after %q", key)
		}
		p.pos++
		v, err := p.value()
		if err != nil {
			return err
		}
		attrs[key] = v

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return nil
		default:
			return fmt.Errorf("expected ',' or ')' at offset %d", p.pos)
		}
	}
}

func (p *parser) value() (string, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '"':
		return p.quoted('"')
	case c == '\'':
		return p.quoted('\'')
	case c == '{':
		return p.array()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.number(), nil
	case isIdentStart(c):
		return ResolveConstant(p.qualifiedName()), nil
	case c == 0:
		return "", errors.New("unexpected end of input")
	default:
		return "", fmt.Errorf("unexpected %q at offset %d", c, p.pos)
	}
}

func (p *parser) array() (string, error) {
	p.pos++ // {
	var items []string
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return strings.Join(items, ","), nil
		}
		v, err := p.value()
		if err != nil {
			return "", err
		}
		items = append(items, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return "", fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
		}
	}
}

func (p *parser) quoted(quote byte) (string, error) {
	start := p.pos
	p.pos++
	escaped := false
	for !p.eof() {
		c := p.src[p.pos]
		p.pos++
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			lit := p.src[start:p.pos]
			if quote == '\'' {
				lit = `"` + strings.ReplaceAll(lit[1:len(lit)-1], `"`, `\"`) + `"`
			}
			s, err := strconv.Unquote(lit)
			if err != nil {
				return "", fmt.Errorf("invalid literal %s: %v", p.src[start:p.pos], err)
			}
			return s, nil
		}
	}
	return "", fmt.Errorf("unterminated literal at offset %d", start)
}

func (p *parser) number() string {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for !p.eof() {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '_' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	lit := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	// type suffix
	if c := p.peek(); c != 0 && strings.IndexByte("LlFfDd", c) >= 0 {
		p.pos++
	}
	return strings.TrimPrefix(lit, "+")
}

func (p *parser) qualifiedName() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if isIdentStart(c) || (p.pos > start && (c == '.' || (c >= '0' && c <= '9'))) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
