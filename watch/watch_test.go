package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RerunsOnChange(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "models")
	require.NoError(t, os.MkdirAll(sub, 0755))

	w, err := New(root, 20*time.Millisecond, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "order.go"), []byte("package models\n"), 0644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_FailedRunKeepsWatching(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, 10*time.Millisecond, time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	go func() {
		_ = w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return assert.AnError
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_Relevant(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(root, "SharedModels.ts")

	w, err := New(root, time.Millisecond, time.Millisecond, output)
	require.NoError(t, err)
	defer w.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: filepath.Join(root, "a.go"), Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: filepath.Join(root, "b.go"), Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: filepath.Join(root, "a.go"), Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(root, "a.go"), Op: fsnotify.Chmod}, false},
		{"generated file", fsnotify.Event{Name: output, Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), time.Millisecond, time.Millisecond)
	assert.Error(t, err)
}
