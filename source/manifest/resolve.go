package manifest

import (
	"strings"

	"github.com/stokaro/qmeta/core/entity"
	"github.com/stokaro/qmeta/core/metadata"
)

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

var javaLang = map[string]bool{
	"String": true, "Integer": true, "Long": true, "Float": true, "Double": true, "Byte": true,
	"Short": true, "Boolean": true, "Character": true, "Object": true, "Number": true,
}

// resolver qualifies type names the way a compiler resolves them inside one source file: explicit
// single-type imports, then the file's own package, then java.lang, then on-demand imports of
// well-known types.
type resolver struct {
	pkg      string
	single   map[string]string // simple name -> qualified name
	onDemand []string          // packages imported with .*
	declared map[string]bool   // qualified names declared by any manifest
}

func newResolver(pkg string, imports []string, declared map[string]bool) *resolver {
	r := &resolver{pkg: pkg, single: map[string]string{}, declared: declared}
	for _, imp := range imports {
		imp = strings.TrimSpace(imp)
		if p, ok := strings.CutSuffix(imp, ".*"); ok {
			r.onDemand = append(r.onDemand, p)
			continue
		}
		if i := strings.LastIndex(imp, "."); i >= 0 {
			r.single[imp[i+1:]] = imp
		}
	}
	return r
}

// resolve qualifies a type name. Array brackets and type arguments are preserved; only the raw
// type is resolved. Names that cannot be resolved are returned as written.
func (r *resolver) resolve(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	suffix := ""
	if i := strings.IndexAny(name, "<["); i >= 0 {
		name, suffix = strings.TrimSpace(name[:i]), name[i:]
	}
	return r.raw(name) + suffix
}

func (r *resolver) raw(name string) string {
	if primitives[name] || strings.Contains(name, ".") {
		return name
	}
	if q, ok := r.single[name]; ok {
		return q
	}
	if q := qualify(r.pkg, name); r.declared[q] {
		return q
	}
	if javaLang[name] {
		if name == "Object" {
			return entity.RootType
		}
		return "java.lang." + name
	}
	for _, p := range r.onDemand {
		if q := p + "." + name; r.declared[q] || metadata.KindOf(q) != metadata.KindOther {
			return q
		}
	}
	return name
}
