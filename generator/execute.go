package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/stokaro/qmeta/config"
	"github.com/stokaro/qmeta/core/emitter"
	"github.com/stokaro/qmeta/output/sink"
	"github.com/stokaro/qmeta/source/manifest"
)

// Execute performs a complete run described by opts: manifests are loaded from fsys, companion
// classes are written below opts.OutputDir on fsys, or to stdout for a dry run.
func Execute(ctx context.Context, fsys afero.Fs, stdout io.Writer, opts *config.GenerateOptions, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	aliases, err := opts.Aliases()
	if err != nil {
		return nil, err
	}

	reg, err := manifest.NewLoader(fsys, aliases, logger).Load(opts.Sources...)
	if err != nil {
		return nil, fmt.Errorf("error loading manifests: %w", err)
	}
	if reg.Len() == 0 {
		return &Summary{}, ErrNoSources
	}
	logger.Info("Loaded entity declarations", "entities", reg.Len(), "sources", opts.Sources)

	var out sink.Sink
	if opts.DryRun {
		out = sink.NewWriterSink(stdout)
	} else {
		fs := sink.NewFileSink(fsys, opts.OutputDir)
		if opts.SkipUnchanged {
			fs.Same = emitter.SameIgnoringTimestamps
		}
		out = fs
	}

	g := New(out, Options{
		Workers:       opts.Workers,
		RequireTable:  opts.RequireTable,
		DefaultSchema: opts.DefaultSchema,
		MaxDepth:      opts.MaxDepth,
		Name:          opts.Generator,
		Logger:        logger,
	})
	return g.Run(ctx, reg)
}
