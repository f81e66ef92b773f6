package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/stokaro/qmeta/core/annotation"
	"github.com/stokaro/qmeta/core/entity"
)

// Extensions lists the file extensions picked up when walking directories.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader reads manifests into an entity registry.
type Loader struct {
	fs      afero.Fs
	aliases *annotation.Aliases
	logger  *slog.Logger
}

// NewLoader creates a Loader reading from fsys and binding annotations through aliases. Nil
// aliases select annotation.DefaultAliases.
func NewLoader(fsys afero.Fs, aliases *annotation.Aliases, logger *slog.Logger) *Loader {
	if aliases == nil {
		aliases = annotation.DefaultAliases()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fs: fsys, aliases: aliases, logger: logger}
}

// document is a parsed manifest document together with the file it came from.
type document struct {
	file string
	File
}

// Load reads every manifest found under paths. A path may be a file or a directory; directories
// are walked recursively, skipping vendor and hidden directories.
func (l *Loader) Load(paths ...string) (*entity.Registry, error) {
	files, err := l.discover(paths)
	if err != nil {
		return nil, err
	}

	var docs []document
	for _, name := range files {
		data, err := afero.ReadFile(l.fs, name)
		if err != nil {
			return nil, fmt.Errorf("error reading manifest %s: %w", name, err)
		}
		parsed, err := Parse(data)
		if err != nil {
			return nil, &ParseError{File: name, Err: err}
		}
		for _, f := range parsed {
			docs = append(docs, document{file: name, File: f})
		}
		l.logger.Debug("Loaded manifest", "file", name, "documents", len(parsed))
	}
	return l.build(docs)
}

// Parse decodes all documents of one manifest.
func Parse(data []byte) ([]File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var files []File
	for {
		var f File
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return files, nil
		}
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
}

func (l *Loader) discover(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}

	for _, root := range paths {
		info, err := l.fs.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error resolving source %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = afero.Walk(l.fs, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && skipDir(info.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if hasManifestExt(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	return name == "vendor" || (strings.HasPrefix(name, ".") && name != ".")
}

func hasManifestExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// build converts parsed documents into declarations. All documents are needed before any type
// name can be resolved, because a field may reference an entity declared in another file.
func (l *Loader) build(docs []document) (*entity.Registry, error) {
	declared := map[string]bool{}
	for _, d := range docs {
		for _, e := range d.Entities {
			declared[qualify(d.Package, e.Name)] = true
		}
	}

	reg := entity.NewRegistry()
	for _, d := range docs {
		r := newResolver(d.Package, d.Imports, declared)
		for _, e := range d.Entities {
			decl, err := l.decl(d, e, r)
			if err != nil {
				return nil, err
			}
			if err := reg.Add(decl); err != nil {
				return nil, &ParseError{File: d.file, Entity: e.Name, Err: err}
			}
		}
	}
	return reg, nil
}

func (l *Loader) decl(d document, e Entity, r *resolver) (*entity.Decl, error) {
	if strings.TrimSpace(e.Name) == "" {
		return nil, &ParseError{File: d.file, Err: fmt.Errorf("%w: entity without a name", ErrInvalidManifest)}
	}

	decl := &entity.Decl{
		Package:    d.Package,
		SimpleName: e.Name,
		Supertype:  r.resolve(e.Extends),
		Markers:    l.aliases.Bind(e.Annotations),
		Source:     d.file,
		Fields:     make([]entity.FieldDecl, 0, len(e.Fields)),
	}

	for _, f := range e.Fields {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Type) == "" {
			return nil, &ParseError{File: d.file, Entity: e.Name, Field: f.Name,
				Err: fmt.Errorf("%w: field requires a name and a type", ErrInvalidManifest)}
		}
		var mods entity.Modifier
		for _, m := range f.Modifiers {
			mods |= entity.ParseModifier(m)
		}
		decl.Fields = append(decl.Fields, entity.FieldDecl{
			Name:      f.Name,
			TypeName:  r.resolve(f.Type),
			Modifiers: mods,
			Doc:       f.Doc,
			Markers:   l.aliases.Bind(f.Annotations),
		})
	}
	return decl, nil
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
