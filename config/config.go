// Package config provides configuration options for qmeta code generation.
//
// Options can be built programmatically when qmeta is used as a library, or loaded from a
// qmeta.yaml file and QMETA_* environment variables with Load.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/stokaro/qmeta/core/annotation"
	"github.com/stokaro/qmeta/core/collect"
	"github.com/stokaro/qmeta/core/emitter"
	"github.com/stokaro/qmeta/core/entity"
	"github.com/stokaro/qmeta/core/metadata"
)

// ErrInvalidOptions is wrapped by every validation error.
var ErrInvalidOptions = errors.New("invalid options")

// GenerateOptions contains the settings of one generation run.
type GenerateOptions struct {
	// Sources are manifest files or directories searched recursively for manifests.
	Sources []string `mapstructure:"sources"`

	// OutputDir is the source root the companion classes are written below.
	OutputDir string `mapstructure:"output_dir"`

	// Generator is the name written into the @Generated annotation.
	Generator string `mapstructure:"generator"`

	// Workers bounds parallel generation. Zero or less means one worker per CPU.
	Workers int `mapstructure:"workers"`

	// DefaultSchema is used for tables whose marker names no schema.
	DefaultSchema string `mapstructure:"default_schema"`

	// RequireTable limits generation to entities carrying the table marker.
	RequireTable bool `mapstructure:"require_table"`

	// SkipUnchanged leaves existing files alone when only their timestamps would change.
	SkipUnchanged bool `mapstructure:"skip_unchanged"`

	// DryRun prints generated sources instead of writing them.
	DryRun bool `mapstructure:"dry_run"`

	// MaxDepth bounds supertype chains.
	MaxDepth int `mapstructure:"max_depth"`

	// Markers registers additional annotation names per marker kind, for example
	//
	//	markers:
	//	  table: [com.acme.persistence.Entity]
	//	  not_null: [lombok.NonNull]
	Markers map[string][]string `mapstructure:"markers"`
}

// DefaultGenerateOptions returns the options used when nothing is configured.
func DefaultGenerateOptions() *GenerateOptions {
	return &GenerateOptions{
		Sources:       []string{"."},
		OutputDir:     "target/generated-sources/qmeta",
		Generator:     emitter.DefaultGenerator,
		Workers:       runtime.GOMAXPROCS(0),
		DefaultSchema: metadata.DefaultSchema,
		RequireTable:  true,
		SkipUnchanged: true,
		MaxDepth:      collect.DefaultMaxDepth,
		Markers:       map[string][]string{},
	}
}

// WithSources returns default options reading manifests from the given paths.
//
// Example:
//
//	opts := config.WithSources("src/main/qmeta", "shared/entities.yaml")
func WithSources(paths ...string) *GenerateOptions {
	opts := DefaultGenerateOptions()
	opts.Sources = paths
	return opts
}

// WithAdditionalMarkers returns default options that also recognise the given annotation names
// for a marker kind.
//
// Example:
//
//	opts := config.WithAdditionalMarkers(entity.MarkerNotNull, "lombok.NonNull")
func WithAdditionalMarkers(kind entity.MarkerKind, names ...string) *GenerateOptions {
	opts := DefaultGenerateOptions()
	opts.AddMarkers(kind, names...)
	return opts
}

// AddMarkers registers annotation names for a marker kind on o.
func (o *GenerateOptions) AddMarkers(kind entity.MarkerKind, names ...string) {
	if o.Markers == nil {
		o.Markers = map[string][]string{}
	}
	o.Markers[string(kind)] = append(o.Markers[string(kind)], names...)
}

// Validate checks the options for values no run can work with.
func (o *GenerateOptions) Validate() error {
	if len(o.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidOptions)
	}
	if o.OutputDir == "" && !o.DryRun {
		return fmt.Errorf("%w: output directory is required", ErrInvalidOptions)
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative", ErrInvalidOptions)
	}
	for name := range o.Markers {
		if !isMarkerKind(name) {
			return fmt.Errorf("%w: unknown marker kind %q", ErrInvalidOptions, name)
		}
	}
	return nil
}

// Aliases builds the annotation alias table: the built-in names plus the configured ones.
func (o *GenerateOptions) Aliases() (*annotation.Aliases, error) {
	a := annotation.DefaultAliases()
	kinds := make([]string, 0, len(o.Markers))
	for name := range o.Markers {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	for _, name := range kinds {
		if !isMarkerKind(name) {
			return nil, fmt.Errorf("%w: unknown marker kind %q", ErrInvalidOptions, name)
		}
		a.Add(entity.MarkerKind(name), o.Markers[name]...)
	}
	return a, nil
}

func isMarkerKind(name string) bool {
	for _, k := range entity.MarkerKinds {
		if string(k) == name {
			return true
		}
	}
	return false
}
