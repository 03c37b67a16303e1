package typegen

import (
	"context"
	"go/token"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/modelexport/corpus"
	"github.com/teranos/modelexport/errors"
	"github.com/teranos/modelexport/logger"
)

// Source reads corpus files. corpus.Lister satisfies it.
type Source interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// ClosureState is the fixed point of one closure run: the final wanted set
// and the units retained for compilation, in retention order.
type ClosureState struct {
	Wanted WantedSet
	Units  []*ParsedUnit
	Passes int

	// Corpus is the corpus the closure was computed over
	Corpus *corpus.Corpus

	included map[string]bool
}

func newClosureState(models []string, c *corpus.Corpus) *ClosureState {
	return &ClosureState{
		Wanted:   NewWantedSet(models...),
		Corpus:   c,
		included: make(map[string]bool),
	}
}

// Included reports whether the file at path was retained
func (s *ClosureState) Included(path string) bool {
	return s.included[path]
}

// Paths returns the retained file paths in retention order
func (s *ClosureState) Paths() []string {
	paths := make([]string, len(s.Units))
	for i, u := range s.Units {
		paths[i] = u.Path
	}
	return paths
}

// include retains unit. A path is retained at most once.
func (s *ClosureState) include(unit *ParsedUnit) {
	if s.included[unit.Path] {
		return
	}
	s.included[unit.Path] = true
	s.Units = append(s.Units, unit)
}

// Builder computes type closures over a corpus. It owns the file set every
// unit is parsed into, so units from one Builder can be compiled together.
//
// The file set holds the cached units plus those evicted since the last
// Build. Each Build first drops evicted units from it, so a ClosureState
// must be resolved before the next Build on the same Builder starts.
type Builder struct {
	source Source
	fset   *token.FileSet
	cache  *unitCache
	log    *zap.SugaredLogger
}

// NewBuilder creates a Builder reading through source and keeping at most
// cacheSize parsed units between runs
func NewBuilder(source Source, cacheSize int) (*Builder, error) {
	cache, err := newUnitCache(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create parse cache")
	}
	return &Builder{
		source: source,
		fset:   token.NewFileSet(),
		cache:  cache,
		log:    logger.ComponentLogger("closure"),
	}, nil
}

// FileSet returns the file set all units of this Builder belong to
func (b *Builder) FileSet() *token.FileSet {
	return b.fset
}

// Unit returns the parsed unit for path, reading the file and reusing a
// cached parse when the content is unchanged. Unreadable files yield nil.
func (b *Builder) Unit(ctx context.Context, path string) *ParsedUnit {
	src, err := b.source.ReadFile(ctx, path)
	if err != nil {
		b.log.Debugw("Skipping unreadable file", logger.FieldFile, path, logger.FieldError, err)
		return nil
	}
	digest := digestOf(path, src)
	if unit, ok := b.cache.get(digest); ok {
		return unit
	}
	unit := parseUnit(b.fset, path, src, digest)
	b.cache.add(unit)
	return unit
}

// releaseEvicted removes units that left the parse cache from the file set
func (b *Builder) releaseEvicted() {
	evicted := b.cache.release()
	for _, u := range evicted {
		if u.tok != nil {
			b.fset.RemoveFile(u.tok)
		}
	}
	if len(evicted) > 0 {
		b.log.Debugw("Released evicted units", logger.FieldCount, len(evicted))
	}
}

// Build grows the wanted set from models until no unread file contributes
// anything new.
//
// Each pass visits every file not yet retained. A file whose visit yields
// required names, or which declares a wanted type, is retained and its
// names merged into the wanted set; retained files are never visited again.
// A file that yielded nothing is visited again only once the wanted set has
// grown since its last visit. The loop ends after a pass that retains no
// file, which happens after at most len(corpus)+1 passes.
func (b *Builder) Build(ctx context.Context, models []string, c *corpus.Corpus) (*ClosureState, error) {
	if len(models) == 0 {
		return nil, errors.WithHint(errors.ErrNoModels, "pass at least one model name")
	}
	if c == nil {
		c = &corpus.Corpus{}
	}

	b.releaseEvicted()

	state := newClosureState(models, c)
	if len(state.Wanted) == 0 {
		return nil, errors.WithHint(errors.ErrNoModels, "model names must not be empty")
	}

	units := make(map[string]*ParsedUnit, c.Len())
	lastSeen := make(map[string]int, c.Len()) // wanted-set size at the last visit

	for {
		state.Passes++
		retained := 0

		for _, path := range c.Paths {
			if state.included[path] {
				continue
			}
			if size, ok := lastSeen[path]; ok && size == len(state.Wanted) {
				continue
			}
			lastSeen[path] = len(state.Wanted)

			unit, ok := units[path]
			if !ok {
				unit = b.Unit(ctx, path)
				units[path] = unit
			}
			if unit == nil {
				continue
			}

			deps := Visit(state.Wanted, unit)
			if deps.Empty() {
				continue
			}

			added := state.Wanted.Merge(deps.Required)
			state.include(unit)
			retained++

			if logger.ShouldLogTrace(logger.Verbosity) {
				b.log.Debugw("Retained unit",
					logger.FieldFile, path,
					"defines", deps.Defines,
					"new_names", added)
			}
		}

		b.log.Debugw("Closure pass complete",
			logger.FieldPass, state.Passes,
			logger.FieldRetained, retained,
			logger.FieldWanted, len(state.Wanted))

		if retained == 0 {
			break
		}
	}

	b.log.Infow("Closure reached fixed point",
		logger.FieldPass, state.Passes,
		logger.FieldRetained, len(state.Units),
		logger.FieldWanted, len(state.Wanted),
		"cached_units", b.cache.len())

	return state, nil
}

// RetainedByDir groups the retained paths by directory, sorted, for reports
func (s *ClosureState) RetainedByDir() map[string][]string {
	out := make(map[string][]string)
	for _, u := range s.Units {
		dir := filepath.Dir(u.Path)
		out[dir] = append(out[dir], u.Path)
	}
	for dir := range out {
		sort.Strings(out[dir])
	}
	return out
}
