// Package typegen projects a named subset of Go model types into another
// language.
//
// A run has three phases:
//   - closure: a syntax-only walk grows the wanted set from the requested
//     model names until no corpus file adds a new name (Visit, Builder)
//   - resolution: the retained files are type-checked with go/types and
//     each wanted type's exact shape is read from the checked package
//     (Resolve)
//   - projection: a Generator renders every resolved type, and the blocks
//     are assembled into one output file (Assemble)
//
// Output is all or nothing: a compile error aborts the run before anything
// is written.
package typegen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/modelexport/corpus"
	"github.com/teranos/modelexport/errors"
	"github.com/teranos/modelexport/logger"
)

// DefaultCacheSize bounds the parsed-unit cache when none is configured
const DefaultCacheSize = 4096

// Options configures one export run
type Options struct {
	Models    []string
	InputDir  string
	OutputDir string

	// OutputName is the output base name without extension
	OutputName string

	// ModuleDir overrides go.mod discovery for import resolution
	ModuleDir string
}

// FileName returns the output file name for gen
func (o Options) FileName(gen Generator) string {
	return o.OutputName + "." + gen.FileExtension()
}

// Exporter runs the pipeline. It keeps its Builder, and with it the parse
// cache, across runs.
type Exporter struct {
	gen     Generator
	lister  *corpus.Lister
	builder *Builder
	store   *OutputStore
	log     *zap.SugaredLogger
}

// NewExporter creates an Exporter projecting with gen
func NewExporter(gen Generator, cacheSize int) (*Exporter, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	lister := corpus.NewLister()
	builder, err := NewBuilder(lister, cacheSize)
	if err != nil {
		return nil, err
	}
	return &Exporter{
		gen:     gen,
		lister:  lister,
		builder: builder,
		store:   NewOutputStore(),
		log:     logger.ComponentLogger("export"),
	}, nil
}

// OutputPath returns where Export writes for opts
func (e *Exporter) OutputPath(opts Options) string {
	return e.store.Path(opts.OutputDir, opts.FileName(e.gen))
}

// BuildClosure computes the closure of models over c with a one-off Builder
func BuildClosure(ctx context.Context, source Source, models []string, c *corpus.Corpus) (*ClosureState, error) {
	b, err := NewBuilder(source, DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, models, c)
}

// Closure enumerates the input directory and computes the closure only
func (e *Exporter) Closure(ctx context.Context, opts Options) (*ClosureState, error) {
	if len(opts.Models) == 0 {
		return nil, errors.WithHint(errors.ErrNoModels, "pass at least one model name")
	}
	c, err := e.lister.List(ctx, opts.InputDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to enumerate source corpus")
	}
	return e.builder.Build(ctx, opts.Models, c)
}

// Generate runs closure, resolution and projection and returns the
// assembled output without writing it
func (e *Exporter) Generate(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := logger.ChildLogger(e.log, logger.FieldRunID, runID)
	start := time.Now()

	state, err := e.Closure(ctx, opts)
	if err != nil {
		return nil, err
	}

	resolved, err := Resolve(ctx, state, e.builder, ResolveOptions{ModuleDir: opts.ModuleDir})
	if err != nil {
		return nil, err
	}

	decls := Project(e.gen, resolved)
	result := &Result{
		RunID:        runID,
		FileName:     opts.FileName(e.gen),
		Declarations: decls,
		Content:      Assemble(e.gen.Header(), decls),
		Wanted:       state.Wanted.Strings(),
		Retained:     state.Paths(),
		Passes:       state.Passes,
	}

	log.Infow("Generated output",
		logger.FieldModels, opts.Models,
		logger.FieldCount, len(decls),
		logger.FieldSize, len(result.Content),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return result, nil
}

// Export generates the output and writes it. Nothing is written when any
// phase fails.
func (e *Exporter) Export(ctx context.Context, opts Options) (*Result, string, error) {
	result, err := e.Generate(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	path, err := e.store.Write(ctx, opts.OutputDir, result.FileName, result.Content)
	if err != nil {
		return nil, "", err
	}
	e.log.Infow("Wrote output", logger.FieldRunID, result.RunID, logger.FieldOutput, path)
	return result, path, nil
}

// Check generates the output in memory and compares it with the file on
// disk. An out-of-date file is reported through CheckResult, not as an error.
func (e *Exporter) Check(ctx context.Context, opts Options) (*Result, CheckResult, error) {
	result, err := e.Generate(ctx, opts)
	if err != nil {
		return nil, CheckResult{}, err
	}
	current, exists, err := e.store.Read(ctx, opts.OutputDir, result.FileName)
	if err != nil {
		return nil, CheckResult{}, err
	}
	path := e.store.Path(opts.OutputDir, result.FileName)
	return result, Compare(path, result.Content, current, exists), nil
}
