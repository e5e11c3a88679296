package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultReloadInterval is the minimum time between two catalog rebuilds.
const DefaultReloadInterval = 2 * time.Second

// CatalogWatcher rebuilds the catalog when source files change on disk.
type CatalogWatcher struct {
	dirs    []string
	loader  *DatasetLoader
	search  SearchService
	limiter *rate.Limiter
	logger  *zap.Logger

	mu     sync.Mutex
	hashes map[string]string
	dirty  chan struct{}
}

// NewCatalogWatcher watches dirs and swaps reloaded catalogs into search.
func NewCatalogWatcher(loader *DatasetLoader, search SearchService, interval time.Duration, logger *zap.Logger, dirs ...string) *CatalogWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultReloadInterval
	}
	return &CatalogWatcher{
		dirs:    dirs,
		loader:  loader,
		search:  search,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger.Named("watcher"),
		hashes:  make(map[string]string),
		dirty:   make(chan struct{}, 1),
	}
}

// Scan records the current hash of every watched source file.
func (w *CatalogWatcher) Scan() {
	for _, dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.logger.Debug("skipping directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if e.IsDir() || !isWatchedFile(path) {
				continue
			}
			hash, err := calculateFileHash(path)
			if err != nil {
				w.logger.Warn("could not hash file", zap.String("file", path), zap.Error(err))
				continue
			}
			w.mu.Lock()
			w.hashes[path] = hash
			w.mu.Unlock()
		}
	}
}

// Watch blocks until ctx is cancelled, rebuilding the catalog after changes.
// Bursts of events collapse into one rebuild per limiter interval.
func (w *CatalogWatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		w.logger.Info("watching directory", zap.String("dir", dir))
	}

	go w.reloadLoop(ctx)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWatchedFile(event.Name) {
				continue
			}
			w.logger.Debug("watcher event", zap.String("event", event.String()))
			if w.changed(event) {
				w.markDirty()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))
		case <-ctx.Done():
			w.logger.Info("context cancelled, shutting down watcher")
			return nil
		}
	}
}

// Reload rebuilds the catalog and hands it to the search service.
func (w *CatalogWatcher) Reload(ctx context.Context) error {
	catalog, err := w.loader.Load(ctx)
	if err != nil {
		return err
	}
	w.search.SetCatalog(catalog)
	w.logger.Info("catalog reloaded", zap.Strings("datasets", catalog.Names()))
	return nil
}

// changed reports whether event altered a file's content or presence.
func (w *CatalogWatcher) changed(event fsnotify.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		_, known := w.hashes[event.Name]
		delete(w.hashes, event.Name)
		return known
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	hash, err := calculateFileHash(event.Name)
	if err != nil {
		w.logger.Warn("could not hash file", zap.String("file", event.Name), zap.Error(err))
		return false
	}
	if w.hashes[event.Name] == hash {
		return false
	}
	w.hashes[event.Name] = hash
	return true
}

func (w *CatalogWatcher) markDirty() {
	select {
	case w.dirty <- struct{}{}:
	default:
	}
}

func (w *CatalogWatcher) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.dirty:
		}
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		if err := w.Reload(ctx); err != nil {
			w.logger.Error("failed to reload catalog", zap.Error(err))
		}
	}
}

func isWatchedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".db":
		return true
	default:
		return IsDocumentFile(path)
	}
}

func calculateFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
