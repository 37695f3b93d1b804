package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.js")
	other := filepath.Join(dir, "other.js")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("a"), 0o644))

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Add(path))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	changes := w.Run(ctx)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("c"), 0o644))

	select {
	case got := <-changes:
		want, _ := filepath.Abs(path)
		assert.Equal(t, want, got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for change")
	}

	// The two writes above were merged into one event.
	select {
	case got := <-changes:
		t.Fatalf("unexpected second event for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	w, err := New(0)
	require.NoError(t, err)
	require.NoError(t, w.Add(filepath.Join(t.TempDir(), "x.py")))

	ctx, cancel := context.WithCancel(context.Background())
	changes := w.Run(ctx)
	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestAddMissingDirectory(t *testing.T) {
	w, err := New(0)
	require.NoError(t, err)
	err = w.Add(filepath.Join(t.TempDir(), "missing", "x.py"))
	assert.Error(t, err)
}
