package typegen

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/teranos/modelexport/errors"
)

// OutputStore reads and writes the generated file through afs
type OutputStore struct {
	fs afs.Service
}

// NewOutputStore creates an OutputStore on the default afs service
func NewOutputStore() *OutputStore {
	return &OutputStore{fs: afs.New()}
}

// Path returns where fileName is written inside dir
func (s *OutputStore) Path(dir, fileName string) string {
	return filepath.Join(dir, fileName)
}

// Write replaces dir/fileName with content in one upload
func (s *OutputStore) Write(ctx context.Context, dir, fileName string, content []byte) (string, error) {
	path := s.Path(dir, fileName)
	if err := s.fs.Upload(ctx, path, file.DefaultFileOsMode, bytes.NewReader(content)); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}

// Read returns the current content of dir/fileName. exists is false when
// there is no such file.
func (s *OutputStore) Read(ctx context.Context, dir, fileName string) (content []byte, exists bool, err error) {
	path := s.Path(dir, fileName)
	exists, err = s.fs.Exists(ctx, path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to stat %s", path)
	}
	if !exists {
		return nil, false, nil
	}
	content, err = s.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, true, errors.Wrapf(err, "failed to read %s", path)
	}
	return content, true, nil
}
