package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github/itish2003/deepsearch/models"
)

// SearchService defines the search operations over a catalog of datasets.
type SearchService interface {
	ExactSearch(ctx context.Context, query string, opts models.SearchOptions) ([]models.Record, error)
	FuzzySearch(ctx context.Context, query string, opts models.SearchOptions) ([]models.Record, error)
	DateRangeSearch(ctx context.Context, start, end string, dateColumns []string) ([]models.Record, error)
	FilterByDateRange(results []models.Record, start, end string, dateColumns []string) ([]models.Record, error)
	CombinedSearch(ctx context.Context, q models.CombinedQuery) ([]models.Record, error)
	Analyze(fileName string) (*models.Analysis, error)
	Columns(fileName string) ([]string, error)
	SuggestColumns(name string) []string
	UnknownColumns(columns []string) map[string][]string
	Catalog() *Catalog
	SetCatalog(c *Catalog)
}

// searchServiceImpl holds the catalog it scans and the workspace used to
// read files that are not in the catalog.
type searchServiceImpl struct {
	workspace *Workspace
	logger    *zap.Logger

	mu      sync.RWMutex
	catalog *Catalog
}

// NewSearchService creates a search service over catalog.
func NewSearchService(catalog *Catalog, workspace *Workspace, logger *zap.Logger) SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &searchServiceImpl{
		workspace: workspace,
		logger:    logger.Named("search"),
		catalog:   catalog,
	}
}

// Catalog returns the catalog searches currently run over.
func (s *searchServiceImpl) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// SetCatalog swaps in a freshly loaded catalog. Searches already running keep
// the one they started with.
func (s *searchServiceImpl) SetCatalog(c *Catalog) {
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
}

// ExactSearch returns every row with a cell containing query. The first
// matching column of a row becomes its matching value.
func (s *searchServiceImpl) ExactSearch(ctx context.Context, query string, opts models.SearchOptions) ([]models.Record, error) {
	needle := query
	if !opts.CaseSensitive {
		needle = strings.ToLower(query)
	}

	var results []models.Record
	for _, ds := range s.Catalog().Datasets() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		cols := searchColumns(ds, opts.Columns)
		if len(cols) == 0 {
			s.logger.Debug("no valid columns to search", zap.String("file", ds.Name))
			continue
		}
		s.logger.Debug("searching dataset", zap.String("file", ds.Name), zap.Int("rows", ds.Len()))

		for i, row := range ds.Rows {
			for _, c := range cols {
				cell := row[c]
				if cell == "" {
					continue
				}
				hay := cell
				if !opts.CaseSensitive {
					hay = strings.ToLower(cell)
				}
				if strings.Contains(hay, needle) {
					s.logger.Debug("match found",
						zap.String("file", ds.Name), zap.Int("row", i), zap.String("value", cell))
					rec := ds.Record(i)
					rec.MatchingValue = cell
					results = append(results, rec)
					break
				}
			}
		}
	}
	return results, nil
}

// FuzzySearch returns rows whose best cell scores above opts.Threshold.
func (s *searchServiceImpl) FuzzySearch(ctx context.Context, query string, opts models.SearchOptions) ([]models.Record, error) {
	var results []models.Record
	for _, ds := range s.Catalog().Datasets() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		cols := searchColumns(ds, opts.Columns)
		if len(cols) == 0 {
			s.logger.Debug("no valid columns to search", zap.String("file", ds.Name))
			continue
		}

		for i, row := range ds.Rows {
			best, bestCol := -1, -1
			for _, c := range cols {
				cell := row[c]
				if cell == "" {
					continue
				}
				score := Ratio(query, cell)
				if score > opts.Threshold && score > best {
					best, bestCol = score, c
				}
			}
			if bestCol < 0 {
				continue
			}
			s.logger.Debug("match found",
				zap.String("file", ds.Name), zap.Int("row", i),
				zap.Int("score", best), zap.String("value", row[bestCol]))
			rec := ds.Record(i)
			rec.MatchScore = models.Score(best)
			rec.MatchingValue = row[bestCol]
			results = append(results, rec)
		}
	}
	return results, nil
}

// DateRangeSearch returns rows where a candidate date column holds a date in
// [start, end]. Without explicit dateColumns, a column is a candidate when one
// of its first five non-empty values parses as a date.
func (s *searchServiceImpl) DateRangeSearch(ctx context.Context, start, end string, dateColumns []string) ([]models.Record, error) {
	rng, err := ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}

	var results []models.Record
	for _, ds := range s.Catalog().Datasets() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		var cols []int
		if len(dateColumns) > 0 {
			cols = searchColumns(ds, dateColumns)
		} else {
			cols = detectDateColumns(ds)
		}
		if len(cols) == 0 {
			s.logger.Debug("no date columns found", zap.String("file", ds.Name))
			continue
		}

		matched := 0
		for i, row := range ds.Rows {
			if rowInRange(row, cols, rng) {
				results = append(results, ds.Record(i))
				matched++
			}
		}
		s.logger.Debug("date matches", zap.String("file", ds.Name), zap.Int("count", matched))
	}
	return results, nil
}

// FilterByDateRange keeps results holding a date in [start, end]. Only
// dateColumns are inspected when given, otherwise every field.
func (s *searchServiceImpl) FilterByDateRange(results []models.Record, start, end string, dateColumns []string) ([]models.Record, error) {
	rng, err := ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || rng.IsOpen() {
		return results, nil
	}

	filtered := make([]models.Record, 0, len(results))
	for _, rec := range results {
		fields := rec.Columns
		if len(dateColumns) > 0 {
			fields = dateColumns
		}
		for _, f := range fields {
			v, ok := rec.Get(f)
			if !ok || v == "" {
				continue
			}
			t, err := ParseDate(v)
			if err != nil {
				continue
			}
			if rng.Contains(t) {
				filtered = append(filtered, rec)
				break
			}
		}
	}
	return filtered, nil
}

// CombinedSearch runs exact or fuzzy search, then the date filter, then the
// column filters. With no query, date bounds alone seed the results. Date
// bounds are validated up front.
func (s *searchServiceImpl) CombinedSearch(ctx context.Context, q models.CombinedQuery) ([]models.Record, error) {
	if _, err := ParseDateRange(q.StartDate, q.EndDate); err != nil {
		return nil, err
	}

	var (
		results []models.Record
		err     error
	)
	hasDates := q.StartDate != "" || q.EndDate != ""

	switch {
	case q.Query != "" && q.Fuzzy:
		results, err = s.FuzzySearch(ctx, q.Query, models.SearchOptions{Threshold: q.MinScore, Columns: q.Columns})
	case q.Query != "":
		results, err = s.ExactSearch(ctx, q.Query, models.SearchOptions{CaseSensitive: q.CaseSensitive, Columns: q.Columns})
	case hasDates:
		results, err = s.DateRangeSearch(ctx, q.StartDate, q.EndDate, q.DateColumns)
		hasDates = false
	}
	if err != nil {
		return nil, err
	}

	if hasDates && len(results) > 0 {
		results, err = s.FilterByDateRange(results, q.StartDate, q.EndDate, q.DateColumns)
		if err != nil {
			return nil, err
		}
	}

	if len(q.Filters) > 0 && len(results) > 0 {
		results = applyFilters(results, q.Filters)
	}
	return results, nil
}

// Analyze describes a dataset, reading it from disk when it is not loaded.
func (s *searchServiceImpl) Analyze(fileName string) (*models.Analysis, error) {
	ds, err := s.dataset(fileName)
	if err != nil {
		return nil, err
	}
	return AnalyzeDataset(ds), nil
}

// Columns lists the columns of a dataset.
func (s *searchServiceImpl) Columns(fileName string) ([]string, error) {
	ds, err := s.dataset(fileName)
	if err != nil {
		return nil, err
	}
	return ds.Columns, nil
}

// SuggestColumns ranks known column names against name by fuzzy subsequence
// match, best first, at most three.
func (s *searchServiceImpl) SuggestColumns(name string) []string {
	var out []string
	for _, m := range fuzzy.Find(name, s.Catalog().Columns()) {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// UnknownColumns maps each requested column found in no dataset to its
// suggestions.
func (s *searchServiceImpl) UnknownColumns(columns []string) map[string][]string {
	known := s.Catalog().Columns()
	out := make(map[string][]string)
	for _, c := range columns {
		if slices.Contains(known, c) {
			continue
		}
		out[c] = s.SuggestColumns(c)
	}
	return out
}

func (s *searchServiceImpl) dataset(fileName string) (*models.Dataset, error) {
	if ds, ok := s.Catalog().Get(fileName); ok {
		return ds, nil
	}
	if s.workspace == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileName)
	}
	path, err := s.workspace.Resolve(fileName)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("dataset not loaded, reading from disk", zap.String("file", fileName))
	var ds *models.Dataset
	if IsDocumentFile(path) {
		ds, err = LoadDocumentDataset(path, fileName)
	} else {
		ds, err = ReadCSVDataset(path, fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, fileName, err)
	}
	return ds, nil
}

// searchColumns maps requested column names to indexes in ds. No request
// means every column.
func searchColumns(ds *models.Dataset, requested []string) []int {
	if len(requested) == 0 {
		idx := make([]int, len(ds.Columns))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	var idx []int
	for _, name := range requested {
		if i := ds.ColumnIndex(name); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

const (
	dateSampleSize = 5
	maxSuggestions = 3
)

func detectDateColumns(ds *models.Dataset) []int {
	var cols []int
	for c := range ds.Columns {
		sampled := 0
		for _, row := range ds.Rows {
			if row[c] == "" {
				continue
			}
			if IsDate(row[c]) {
				cols = append(cols, c)
				break
			}
			sampled++
			if sampled == dateSampleSize {
				break
			}
		}
	}
	return cols
}

func rowInRange(row []string, cols []int, rng DateRange) bool {
	for _, c := range cols {
		if row[c] == "" {
			continue
		}
		t, err := ParseDate(row[c])
		if err != nil {
			continue
		}
		if rng.Contains(t) {
			return true
		}
	}
	return false
}

func applyFilters(results []models.Record, filters map[string]string) []models.Record {
	kept := make([]models.Record, 0, len(results))
	for _, rec := range results {
		if matchesFilters(rec, filters) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func matchesFilters(rec models.Record, filters map[string]string) bool {
	for column, want := range filters {
		var v string
		switch column {
		case models.FieldFile, models.FieldMatchingValue, models.FieldMatchScore:
			v = rec.Value(column)
		default:
			got, ok := rec.Get(column)
			if !ok {
				return false
			}
			v = got
		}
		if !strings.Contains(strings.ToLower(v), strings.ToLower(want)) {
			return false
		}
	}
	return true
}
