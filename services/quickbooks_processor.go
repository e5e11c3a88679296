package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github/itish2003/deepsearch/config"
	"github/itish2003/deepsearch/models"
)

const (
	quickBooksTable    = "quickbooks"
	quickBooksCustomer = "Customer"
	quickBooksYear     = "Year"
	quickBooksIndex    = "idx_customer_year"
)

var quickBooksFile = regexp.MustCompile(`^(\d{4})\s+QB\.csv$`)

// QuickBooksProcessor merges yearly QuickBooks exports into one CSV and one
// SQLite table.
type QuickBooksProcessor struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewQuickBooksProcessor creates a processor over the data directory.
func NewQuickBooksProcessor(cfg *config.Config, logger *zap.Logger) *QuickBooksProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuickBooksProcessor{cfg: cfg, logger: logger.Named("quickbooks")}
}

// Files lists the "YYYY QB.csv" exports in the data directory.
func (p *QuickBooksProcessor) Files() ([]string, error) {
	ws, err := NewWorkspace(p.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	names, err := ws.List(".csv")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		if quickBooksFile.MatchString(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Process reads one export, adds its Year and cleans every amount column.
func (p *QuickBooksProcessor) Process(name string) (*models.Dataset, error) {
	year := "Unknown"
	if m := quickBooksFile.FindStringSubmatch(filepath.Base(name)); m != nil {
		year = m[1]
	}

	ds, err := ReadCSVDataset(p.cfg.Path(name), name)
	if err != nil {
		return nil, err
	}

	yearIdx := ds.ColumnIndex(quickBooksYear)
	if yearIdx < 0 {
		ds.Columns = append(ds.Columns, quickBooksYear)
		yearIdx = len(ds.Columns) - 1
		for i := range ds.Rows {
			ds.Rows[i] = append(ds.Rows[i], "")
		}
	}
	for _, row := range ds.Rows {
		row[yearIdx] = year
		for c, col := range ds.Columns {
			if col == quickBooksCustomer || col == quickBooksYear {
				continue
			}
			row[c] = CleanAmount(row[c])
		}
	}
	p.logger.Debug("processed QuickBooks file", zap.String("file", name), zap.String("year", year), zap.Int("rows", ds.Len()))
	return ds, nil
}

// Consolidate processes every export and writes the consolidated CSV and
// the SQLite database. Files that fail to parse are logged and skipped.
func (p *QuickBooksProcessor) Consolidate(ctx context.Context) (*models.Dataset, error) {
	files, err := p.Files()
	if err != nil {
		return nil, fmt.Errorf("list QuickBooks files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoQuickBooksFiles
	}
	p.logger.Info("found QuickBooks files", zap.Strings("files", files))

	var parts []*models.Dataset
	for _, name := range files {
		ds, err := p.Process(name)
		if err != nil {
			p.logger.Error("error processing QuickBooks file", zap.String("file", name), zap.Error(err))
			continue
		}
		parts = append(parts, ds)
	}
	if len(parts) == 0 {
		return nil, ErrNoQuickBooksFiles
	}

	combined := concatDatasets(filepath.Base(p.cfg.QuickBooksOutput), parts)
	out := p.cfg.Path(p.cfg.QuickBooksOutput)
	if err := WriteCSVFile(out, combined.Columns, combined.Rows); err != nil {
		return nil, err
	}
	combined.Path = out
	p.logger.Info("saved consolidated QuickBooks data", zap.String("file", out), zap.Int("rows", combined.Len()))

	if err := p.writeDatabase(ctx, combined); err != nil {
		return nil, err
	}
	return combined, nil
}

func (p *QuickBooksProcessor) writeDatabase(ctx context.Context, ds *models.Dataset) error {
	dbPath := p.cfg.Path(p.cfg.QuickBooksDB)
	store, err := CreateSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	specs := make([]ColumnSpec, len(ds.Columns))
	for i, c := range ds.Columns {
		typ := "REAL"
		if c == quickBooksCustomer || c == quickBooksYear {
			typ = "TEXT"
		}
		specs[i] = ColumnSpec{Name: c, Type: typ}
	}
	if err := store.CreateTable(ctx, quickBooksTable, specs, false); err != nil {
		return err
	}

	rows := make([][]any, len(ds.Rows))
	for i, row := range ds.Rows {
		vals := make([]any, len(row))
		for c, v := range row {
			switch {
			case v == "":
				vals[c] = nil
			case specs[c].Type == "REAL":
				f, _ := strconv.ParseFloat(v, 64)
				vals[c] = f
			default:
				vals[c] = v
			}
		}
		rows[i] = vals
	}
	if err := store.InsertRows(ctx, quickBooksTable, ds.Columns, rows); err != nil {
		return err
	}

	if ds.HasColumn(quickBooksCustomer) {
		if err := store.CreateIndex(ctx, quickBooksIndex, quickBooksTable, quickBooksCustomer, quickBooksYear); err != nil {
			return err
		}
	}
	p.logger.Info("created QuickBooks database", zap.String("db", store.Path()))
	return nil
}

// CleanAmount strips thousands separators and dollar signs. Anything that is
// still not a number becomes 0.
func CleanAmount(v string) string {
	v = strings.TrimSpace(strings.NewReplacer(",", "", "$", "").Replace(v))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// concatDatasets stacks datasets under the union of their columns, in
// first-seen order. Cells a dataset lacks are empty.
func concatDatasets(name string, parts []*models.Dataset) *models.Dataset {
	out := &models.Dataset{Name: name}
	pos := make(map[string]int)
	for _, ds := range parts {
		for _, c := range ds.Columns {
			if _, ok := pos[c]; !ok {
				pos[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}
	for _, ds := range parts {
		for _, row := range ds.Rows {
			merged := make([]string, len(out.Columns))
			for c, v := range row {
				merged[pos[ds.Columns[c]]] = v
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}
