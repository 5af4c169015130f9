package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_PublishesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	w, err := New(Config{Path: path, DebounceDur: 20 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := w.Broker().Subscribe(ctx)

	require.NoError(t, os.WriteFile(path, []byte(`{"card_001": {}}`), 0o644))

	select {
	case ev := <-ch:
		assert.Equal(t, path, ev.Payload.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload event")
	}
}

func TestWatcher_DebouncesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	w, err := New(Config{Path: path, DebounceDur: 100 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := w.Broker().Subscribe(ctx)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	// One event for the burst.
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for debounced event")
	}

	select {
	case <-ch:
		t.Fatal("burst should coalesce into a single event")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	w, err := New(Config{Path: path, DebounceDur: 20 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := w.Broker().Subscribe(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-ch:
		t.Fatal("unrelated file must not trigger a reload")
	case <-time.After(200 * time.Millisecond):
	}
}
