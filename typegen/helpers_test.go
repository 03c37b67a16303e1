package typegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/modelexport/corpus"
)

// memSource serves corpus files from memory
type memSource map[string]string

func (m memSource) ReadFile(_ context.Context, path string) ([]byte, error) {
	src, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(src), nil
}

// memCorpus returns a corpus of the given files in the given order
func memCorpus(files ...[2]string) (memSource, *corpus.Corpus) {
	src := make(memSource, len(files))
	paths := make([]string, len(files))
	for i, f := range files {
		src[f[0]] = f[1]
		paths[i] = f[0]
	}
	return src, corpus.FromPaths("/mem", paths...)
}

// writeCorpus writes files below a temp dir and lists them
func writeCorpus(t *testing.T, files map[string]string) (string, *corpus.Corpus) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	c, err := corpus.NewLister().List(context.Background(), root)
	require.NoError(t, err)
	return root, c
}

// resolveFiles runs closure and resolution over files written to disk
func resolveFiles(t *testing.T, models []string, files map[string]string) (*Resolved, error) {
	t.Helper()
	_, c := writeCorpus(t, files)
	b, err := NewBuilder(corpus.NewLister(), 64)
	require.NoError(t, err)
	state, err := b.Build(context.Background(), models, c)
	require.NoError(t, err)
	return Resolve(context.Background(), state, b, ResolveOptions{})
}

func names(ws WantedSet) []string {
	return ws.Strings()
}
