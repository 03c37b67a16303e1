// Package corpus enumerates the candidate source files for an export run.
//
// Every regular file below the root is offered; filtering by extension is
// left to the parser, which simply yields nothing for non-Go content.
package corpus

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	"github.com/teranos/modelexport/errors"
)

// Corpus is an ordered, immutable list of absolute file paths.
type Corpus struct {
	Root  string
	Paths []string
}

// Len returns the number of files in the corpus
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Paths)
}

// FromPaths builds a corpus from an explicit path list, keeping its order.
// Used by tests to feed the closure builder a synthetic corpus.
func FromPaths(root string, paths ...string) *Corpus {
	out := make([]string, len(paths))
	copy(out, paths)
	return &Corpus{Root: root, Paths: out}
}

// Lister enumerates corpora through an abstract file system
type Lister struct {
	fs afs.Service
}

// NewLister creates a Lister backed by afs
func NewLister() *Lister {
	return &Lister{fs: afs.New()}
}

// List recursively enumerates every regular file under root. Paths are
// absolute and sorted so closure order is reproducible across runs.
func (l *Lister) List(ctx context.Context, root string) (*Corpus, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", root)
	}

	objects, err := l.fs.List(ctx, abs, option.NewRecursive(true))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", abs)
	}

	seen := make(map[string]bool, len(objects))
	paths := make([]string, 0, len(objects))
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		path := filepath.Clean(url.Path(object.URL()))
		if seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return &Corpus{Root: abs, Paths: paths}, nil
}

// ReadFile returns the content of one corpus file
func (l *Lister) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := l.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}
