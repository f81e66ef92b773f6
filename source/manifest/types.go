// Package manifest loads entity declarations from YAML or JSON manifest files.
//
// A manifest is the already-parsed form of a set of entity classes: their names, supertypes,
// fields and annotations. Manifests are typically dumped by a build plugin of the host compiler
// or written by hand for small projects:
//
//	package: com.example.order
//	imports: [java.math.BigDecimal]
//	entities:
//	  - name: Order
//	    extends: com.example.common.BaseEntity
//	    annotations:
//	      Table: {value: orders, schema: sales}
//	    fields:
//	      - name: id
//	        type: Long
//	        annotations: ["@Id"]
//	      - name: amount
//	        type: BigDecimal
//	        annotations: ['@Column(value = "amount", precision = 12, scale = 4)']
//
// A file may hold several YAML documents. JSON files are read with the same decoder.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stokaro/qmeta/core/annotation"
)

// ErrInvalidManifest is wrapped by every error describing a malformed manifest.
var ErrInvalidManifest = errors.New("invalid manifest")

// File is one manifest document.
type File struct {
	Package  string   `yaml:"package"`
	Imports  []string `yaml:"imports"`
	Entities []Entity `yaml:"entities"`
}

// Entity is one declared entity class.
type Entity struct {
	Name        string      `yaml:"name"`
	Extends     string      `yaml:"extends"`
	Annotations Annotations `yaml:"annotations"`
	Fields      []Field     `yaml:"fields"`
}

// Field is one declared field.
type Field struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Doc         string      `yaml:"doc"`
	Modifiers   []string    `yaml:"modifiers"`
	Annotations Annotations `yaml:"annotations"`
}

// Annotations accepts two spellings: a list of annotation strings
//
//	annotations: ["@Id", '@Column("order_no")']
//
// or a map from annotation name to attributes
//
//	annotations:
//	  Id: {}
//	  Column: {value: order_no, length: 32}
//	  JdbcTypeCode: 3001
//
// A scalar map value is shorthand for the value attribute.
type Annotations []annotation.Annotation

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Annotations) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: annotation list entries must be strings", item.Line)
			}
			ann, err := annotation.Parse(item.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			*a = append(*a, ann)
		}
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			attrs, err := attributes(val)
			if err != nil {
				return fmt.Errorf("line %d: annotation %s: %w", val.Line, key.Value, err)
			}
			*a = append(*a, annotation.Annotation{Name: strings.TrimPrefix(key.Value, "@"), Attrs: attrs})
		}
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
	}
	return fmt.Errorf("line %d: annotations must be a list or a map", node.Line)
}

func attributes(node *yaml.Node) (map[string]string, error) {
	attrs := map[string]string{}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!null" && node.Value != "" {
			attrs["value"] = plain(node)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := scalar(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", node.Content[i].Value, err)
			}
			attrs[node.Content[i].Value] = v
		}
	case yaml.SequenceNode:
		v, err := scalar(node)
		if err != nil {
			return nil, err
		}
		attrs["value"] = v
	default:
		return nil, errors.New("unsupported attribute value")
	}
	return attrs, nil
}

func scalar(node *yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return plain(node), nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return "", errors.New("nested values are not supported")
			}
			items = append(items, plain(item))
		}
		return strings.Join(items, ","), nil
	}
	return "", errors.New("nested values are not supported")
}

// ParseError locates a manifest problem.
type ParseError struct {
	File   string
	Entity string
	Field  string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.File)
	if e.Entity != "" {
		b.WriteString(": entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidManifest.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidManifest
}

// plain returns a scalar's value with unquoted constant references resolved, as in annotation text.
func plain(node *yaml.Node) string {
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return node.Value
	}
	return annotation.ResolveConstant(node.Value)
}
