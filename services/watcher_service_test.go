package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherChangedSkipsIdenticalContent(t *testing.T) {
	cfg := testConfig(t)
	path := writeFile(t, cfg.DataDir, "clients.csv", "Name\nAnna\n")
	writeFile(t, cfg.DataDir, "ignored.log", "x")

	w := NewCatalogWatcher(NewDatasetLoader(cfg, zap.NewNop()), nil, 0, zap.NewNop(), cfg.DataDir)
	w.Scan()
	require.Len(t, w.hashes, 1)

	assert.False(t, w.changed(fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.False(t, w.changed(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))

	require.NoError(t, os.WriteFile(path, []byte("Name\nBob\n"), 0o644))
	assert.True(t, w.changed(fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.False(t, w.changed(fsnotify.Event{Name: path, Op: fsnotify.Write}))

	assert.True(t, w.changed(fsnotify.Event{Name: path, Op: fsnotify.Remove}))
	assert.False(t, w.changed(fsnotify.Event{Name: path, Op: fsnotify.Remove}))
}

func TestWatcherMarkDirtyCollapses(t *testing.T) {
	w := NewCatalogWatcher(nil, nil, time.Second, zap.NewNop())
	w.markDirty()
	w.markDirty()
	w.markDirty()
	assert.Len(t, w.dirty, 1)
}

func TestWatcherReloadSwapsCatalog(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.DataDir, "clients.csv", "Name\nAnna\n")
	loader := NewDatasetLoader(cfg, zap.NewNop())
	search := NewSearchService(NewCatalog(), nil, zap.NewNop())

	w := NewCatalogWatcher(loader, search, 0, zap.NewNop(), cfg.DataDir)
	require.NoError(t, w.Reload(context.Background()))
	assert.Equal(t, []string{"clients.csv"}, search.Catalog().Names())
}

func TestWatchReloadsOnChange(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.DataDir, "clients.csv", "Name\nAnna\n")
	loader := NewDatasetLoader(cfg, zap.NewNop())
	catalog, err := loader.Load(context.Background())
	require.NoError(t, err)
	search := NewSearchService(catalog, nil, zap.NewNop())

	w := NewCatalogWatcher(loader, search, 10*time.Millisecond, zap.NewNop(), cfg.DataDir)
	w.Scan()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, cfg.DataDir, "jobs.csv", "Client\nAcme\n")

	assert.Eventually(t, func() bool {
		_, ok := search.Catalog().Get("jobs.csv")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestIsWatchedFile(t *testing.T) {
	assert.True(t, isWatchedFile(filepath.Join("data", "a.CSV")))
	assert.True(t, isWatchedFile("schedules.db"))
	assert.True(t, isWatchedFile("documents/intake.pdf"))
	assert.False(t, isWatchedFile("notes.log"))
}
