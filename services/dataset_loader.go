package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github/itish2003/deepsearch/config"
	"github/itish2003/deepsearch/models"
)

// DerivedGenerator materializes a dataset that is not exported directly but
// computed from other files in the data directory.
type DerivedGenerator interface {
	// Output is the file name the generator writes in the data directory.
	Output() string
	// Supersedes names a raw source hidden once Output exists, or "".
	Supersedes() string
	// Available reports whether the generator's inputs are present.
	Available() bool
	// Generate writes Output.
	Generate(ctx context.Context) error
}

// DatasetLoader builds a Catalog from the data directory.
type DatasetLoader struct {
	cfg        *config.Config
	generators []DerivedGenerator
	logger     *zap.Logger
}

// NewDatasetLoader creates a loader that bootstraps the given generators.
func NewDatasetLoader(cfg *config.Config, logger *zap.Logger, generators ...DerivedGenerator) *DatasetLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetLoader{
		cfg:        cfg,
		generators: generators,
		logger:     logger.Named("loader"),
	}
}

// Load enumerates CSV files, builds any missing derived datasets, and reads
// everything into memory. A file that fails to load is logged and left out;
// only an unreadable data directory fails the call.
func (l *DatasetLoader) Load(ctx context.Context) (*Catalog, error) {
	files, err := l.csvFiles(ctx)
	if err != nil {
		return nil, err
	}

	hidden := make(map[string]bool)
	for _, g := range l.generators {
		if g.Supersedes() != "" && slices.Contains(files, g.Output()) {
			hidden[g.Supersedes()] = true
		}
	}

	var datasets []*models.Dataset
	for _, name := range files {
		if hidden[name] {
			l.logger.Debug("skipping raw source in favor of derived dataset", zap.String("file", name))
			continue
		}
		path := l.cfg.Path(name)
		if l.cfg.Debug {
			if info, err := os.Stat(path); err == nil {
				l.logger.Debug("loading file", zap.String("file", name), zap.Int64("bytes", info.Size()))
			}
		}
		ds, err := ReadCSVDataset(path, name)
		if err != nil {
			l.logger.Debug("error loading file", zap.String("file", name), zap.Error(err))
			continue
		}
		l.logger.Debug("loaded dataset",
			zap.String("file", name),
			zap.Int("rows", ds.Len()),
			zap.Strings("columns", ds.Columns))
		datasets = append(datasets, ds)
	}

	datasets = append(datasets, l.loadDocuments()...)
	datasets = append(datasets, l.loadSQLiteSources(ctx)...)

	catalog := NewCatalog(datasets...)
	l.logger.Info("catalog loaded", zap.Int("datasets", len(catalog.Datasets())))
	return catalog, nil
}

// csvFiles lists CSV files in the data directory, running generators for
// derived datasets that are missing. Newly generated files are appended.
func (l *DatasetLoader) csvFiles(ctx context.Context) ([]string, error) {
	files, err := listFiles(l.cfg.DataDir, ".csv")
	if err != nil {
		return nil, fmt.Errorf("list data directory %s: %w", l.cfg.DataDir, err)
	}

	for _, g := range l.generators {
		out := g.Output()
		if slices.Contains(files, out) || !g.Available() {
			continue
		}
		l.logger.Info("creating derived dataset", zap.String("file", out))
		if err := g.Generate(ctx); err != nil {
			l.logger.Error("failed to create derived dataset", zap.String("file", out), zap.Error(err))
			continue
		}
		if _, err := os.Stat(l.cfg.Path(out)); err == nil {
			l.logger.Info("created derived dataset", zap.String("file", out))
			files = append(files, out)
		}
	}
	return files, nil
}

func (l *DatasetLoader) loadDocuments() []*models.Dataset {
	dir := l.cfg.Path(l.cfg.DocumentsDir)
	if dir == "" {
		return nil
	}
	names, err := listFiles(dir, ".pdf", ".txt", ".md")
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("error listing documents", zap.String("dir", dir), zap.Error(err))
		}
		return nil
	}

	var out []*models.Dataset
	for _, name := range names {
		dsName := filepath.ToSlash(filepath.Join(filepath.Base(l.cfg.DocumentsDir), name))
		ds, err := LoadDocumentDataset(filepath.Join(dir, name), dsName)
		if err != nil {
			l.logger.Debug("error loading document", zap.String("file", name), zap.Error(err))
			continue
		}
		out = append(out, ds)
	}
	return out
}

func (l *DatasetLoader) loadSQLiteSources(ctx context.Context) []*models.Dataset {
	var out []*models.Dataset
	for _, src := range l.cfg.SQLiteSources {
		store, err := OpenSQLite(l.cfg.Path(src))
		if err != nil {
			l.logger.Debug("error opening database", zap.String("db", src), zap.Error(err))
			continue
		}
		tables, err := store.Tables(ctx)
		if err != nil {
			l.logger.Debug("error listing tables", zap.String("db", src), zap.Error(err))
			store.Close()
			continue
		}
		for _, table := range tables {
			ds, err := store.LoadTable(ctx, table)
			if err != nil {
				l.logger.Debug("error loading table", zap.String("db", src), zap.String("table", table), zap.Error(err))
				continue
			}
			ds.Name = src + ":" + table
			out = append(out, ds)
		}
		store.Close()
	}
	return out
}
