// Package generator drives code generation: it runs every entity of a registry through the
// collector and the emitter and hands the result to a sink.
//
// Entities are processed in parallel. The failure of one entity is logged, recorded in the
// summary and returned as part of an aggregated error; it never stops the others.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/stokaro/qmeta/core/collect"
	"github.com/stokaro/qmeta/core/emitter"
	"github.com/stokaro/qmeta/core/entity"
	"github.com/stokaro/qmeta/core/metadata"
	"github.com/stokaro/qmeta/output/sink"
)

// Options configures a Generator. The zero value is usable.
type Options struct {
	// Workers bounds the number of entities processed at once. Zero means GOMAXPROCS.
	Workers int
	// RequireTable restricts generation to entities carrying the table marker. Bases without
	// it still contribute their columns to subclasses.
	RequireTable bool
	// DefaultSchema is used when the table marker names no schema.
	DefaultSchema string
	// MaxDepth bounds supertype chains. Zero means collect.DefaultMaxDepth.
	MaxDepth int
	// Name is written into the @Generated annotation.
	Name string
	// Clock provides generation timestamps. Nil means time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// Generator generates companion classes into a sink.
type Generator struct {
	sink    sink.Sink
	opts    Options
	logger  *slog.Logger
	emitter *emitter.Emitter
}

// New creates a Generator writing to s.
func New(s sink.Sink, opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		sink:    s,
		opts:    opts,
		logger:  logger,
		emitter: emitter.New(emitter.WithGenerator(opts.Name), emitter.WithClock(opts.Clock)),
	}
}

// Summary describes the outcome of a run. Name lists are sorted.
type Summary struct {
	Generated  []string
	Unchanged  []string
	Skipped    []string
	Failed     []*EntityError
	Collisions int
}

// Total returns the number of entities the run attempted.
func (s *Summary) Total() int {
	return len(s.Generated) + len(s.Unchanged) + len(s.Failed)
}

// Run generates the companion class of every eligible entity of reg. The returned error combines
// the EntityError of every failed entity; the summary is returned in either case. Cancelling ctx
// stops scheduling further entities.
func (g *Generator) Run(ctx context.Context, reg *entity.Registry) (*Summary, error) {
	summary := &Summary{}

	var targets []*entity.Decl
	for _, d := range reg.All() {
		if g.opts.RequireTable && !d.Markers.HasMarker(entity.MarkerTable) {
			summary.Skipped = append(summary.Skipped, d.QualifiedName())
			continue
		}
		targets = append(targets, d)
	}
	if len(targets) == 0 {
		return summary, ErrNoSources
	}

	collector := collect.New(reg,
		collect.WithLogger(g.logger),
		collect.WithMaxDepth(g.opts.MaxDepth),
		collect.WithDefaultSchema(g.opts.DefaultSchema))

	var (
		mu   sync.Mutex
		errs error
	)
	record := func(f func()) {
		mu.Lock()
		defer mu.Unlock()
		f()
	}

	eg := new(errgroup.Group)
	eg.SetLimit(g.opts.Workers)
	for _, d := range targets {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			status, collisions, err := g.generate(collector, d)
			record(func() {
				summary.Collisions += collisions
				if err != nil {
					summary.Failed = append(summary.Failed, err)
					errs = multierr.Append(errs, err)
					return
				}
				if status == sink.Unchanged {
					summary.Unchanged = append(summary.Unchanged, d.QualifiedName())
				} else {
					summary.Generated = append(summary.Generated, d.QualifiedName())
				}
			})
			return nil
		})
	}
	_ = eg.Wait()

	sort.Strings(summary.Generated)
	sort.Strings(summary.Unchanged)
	sort.Strings(summary.Skipped)
	sort.Slice(summary.Failed, func(i, j int) bool { return summary.Failed[i].Entity < summary.Failed[j].Entity })

	if err := ctx.Err(); err != nil {
		return summary, multierr.Append(errs, err)
	}
	return summary, errs
}

func (g *Generator) generate(collector *collect.Collector, d *entity.Decl) (sink.Status, int, *EntityError) {
	name := d.QualifiedName()
	fail := func(stage Stage, err error) *EntityError {
		g.logger.Error("Entity generation failed", "entity", name, "stage", string(stage), "error", err)
		return &EntityError{Entity: name, Stage: stage, Err: err}
	}

	desc, err := collector.Describe(d)
	if err != nil {
		return sink.Written, 0, fail(StageCollect, err)
	}

	src, err := g.emit(desc)
	if err != nil {
		return sink.Written, len(desc.Collisions), fail(StageEmit, err)
	}

	file := emitter.FileName(desc)
	status, err := g.sink.Write(file, src)
	if err != nil {
		return status, len(desc.Collisions), fail(StageWrite, err)
	}
	g.logger.Debug("Generated companion class",
		"entity", name, "file", file, "columns", len(desc.Columns), "status", status.String())
	return status, len(desc.Collisions), nil
}

// emit converts a panic of the emitter into an error of the entity being emitted.
func (g *Generator) emit(desc *metadata.EntityDescriptor) (src []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("emitter panic: %v", r)
		}
	}()
	return g.emitter.Emit(desc), nil
}
