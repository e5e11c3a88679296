package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github/itish2003/deepsearch/config"
	"github/itish2003/deepsearch/models"
)

const (
	jobsTable        = "jobs"
	typeSampleSize   = 10
	metadataTimeFmt  = "2006-01-02 15:04:05"
	normalizedDayFmt = "2006-01-02"
)

var (
	nonAlnum      = regexp.MustCompile(`[^a-zA-Z0-9]`)
	repeatedUnder = regexp.MustCompile(`_+`)
	clientTerms   = []string{"client", "customer", "name", "company"}
)

// ScheduleDBMetadata is written next to the schedule database.
type ScheduleDBMetadata struct {
	CreatedAt     string              `json:"created_at"`
	TotalRecords  int                 `json:"total_records"`
	Columns       models.OrderedField `json:"columns"`
	DateColumns   []string            `json:"date_columns"`
	ClientColumns []string            `json:"client_columns"`
	ColumnMapping models.OrderedField `json:"column_mapping"`
}

// ScheduleDatabase rebuilds the SQLite copy of the consolidated schedules.
type ScheduleDatabase struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewScheduleDatabase creates a builder for the schedule database.
func NewScheduleDatabase(cfg *config.Config, logger *zap.Logger) *ScheduleDatabase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleDatabase{cfg: cfg, logger: logger.Named("scheduledb")}
}

// Build reads the consolidated schedule CSV and writes the jobs table, its
// indexes and the metadata sidecar.
func (b *ScheduleDatabase) Build(ctx context.Context) (*ScheduleDBMetadata, error) {
	src := b.cfg.Path(b.cfg.ScheduleOutput)
	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, src)
	}
	ds, err := ReadCSVDataset(src, b.cfg.ScheduleOutput)
	if err != nil {
		return nil, err
	}

	mapping := SQLColumnNames(ds.Columns)
	specs := make([]ColumnSpec, len(ds.Columns))
	isDateCol := make([]bool, len(ds.Columns))
	var dateCols, clientCols []string
	var columnsMeta, mappingMeta models.OrderedField
	for i, col := range ds.Columns {
		typ := inferSQLType(ds, i)
		if strings.Contains(strings.ToLower(col), "date") {
			typ = "TEXT"
			isDateCol[i] = true
			dateCols = append(dateCols, col)
		}
		if isClientColumn(col) {
			clientCols = append(clientCols, col)
		}
		specs[i] = ColumnSpec{Name: mapping[i], Type: typ}
		columnsMeta = append(columnsMeta, models.Field{Name: col, Value: typ})
		mappingMeta = append(mappingMeta, models.Field{Name: col, Value: mapping[i]})
	}

	dbPath := b.cfg.Path(b.cfg.ScheduleDB)
	store, err := CreateSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.CreateTable(ctx, jobsTable, specs, true); err != nil {
		return nil, err
	}

	rows := make([][]any, len(ds.Rows))
	for r, row := range ds.Rows {
		vals := make([]any, len(row))
		for c, v := range row {
			vals[c] = sqlValue(v, specs[c].Type, isDateCol[c])
		}
		rows[r] = vals
	}
	if err := store.InsertRows(ctx, jobsTable, mapping, rows); err != nil {
		return nil, err
	}
	b.logger.Info("inserted schedule records", zap.String("db", store.Path()), zap.Int("records", len(rows)))

	indexed := make(map[string]bool)
	for _, col := range append(append([]string{}, dateCols...), clientCols...) {
		name := mapping[ds.ColumnIndex(col)]
		if indexed[name] {
			continue
		}
		indexed[name] = true
		if err := store.CreateIndex(ctx, "idx_"+name, jobsTable, name); err != nil {
			b.logger.Warn("error creating index", zap.String("column", name), zap.Error(err))
		}
	}

	meta := &ScheduleDBMetadata{
		CreatedAt:     time.Now().Format(metadataTimeFmt),
		TotalRecords:  ds.Len(),
		Columns:       columnsMeta,
		DateColumns:   nonNil(dateCols),
		ClientColumns: nonNil(clientCols),
		ColumnMapping: mappingMeta,
	}
	if err := b.writeMetadata(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func (b *ScheduleDatabase) writeMetadata(meta *ScheduleDBMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	path := b.cfg.Path(b.cfg.ScheduleMetadata)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata %s: %w", path, err)
	}
	return nil
}

// QueryDatabase runs an ad hoc statement against a SQLite file.
func QueryDatabase(ctx context.Context, dbPath, query string) (*models.Dataset, error) {
	store, err := OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Query(ctx, query)
}

// SQLColumnNames lower-cases names, replaces anything but letters and digits
// with underscores and suffixes repeats with _2, _3 and so on.
func SQLColumnNames(columns []string) []string {
	used := make(map[string]int)
	out := make([]string, len(columns))
	for i, col := range columns {
		name := cleanColumnName(col)
		if n, ok := used[name]; ok {
			used[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		} else {
			used[name] = 1
		}
		out[i] = name
	}
	return out
}

func cleanColumnName(name string) string {
	clean := nonAlnum.ReplaceAllString(strings.ToLower(name), "_")
	if clean == "" {
		clean = "col"
	}
	if clean[0] >= '0' && clean[0] <= '9' {
		clean = "col_" + clean
	}
	clean = repeatedUnder.ReplaceAllString(clean, "_")
	clean = strings.TrimRight(clean, "_")
	if clean == "" {
		return "col"
	}
	return clean
}

// inferSQLType is REAL when the first non-empty samples are all numeric.
func inferSQLType(ds *models.Dataset, c int) string {
	sampled := 0
	for _, row := range ds.Rows {
		v := strings.TrimSpace(row[c])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "TEXT"
		}
		sampled++
		if sampled == typeSampleSize {
			break
		}
	}
	if sampled == 0 {
		return "TEXT"
	}
	return "REAL"
}

func sqlValue(v, typ string, isDate bool) any {
	if v == "" {
		return nil
	}
	if isDate {
		t, err := ParseDate(v)
		if err != nil {
			return nil
		}
		return t.Format(normalizedDayFmt)
	}
	if typ == "REAL" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return v
}

func isClientColumn(col string) bool {
	lower := strings.ToLower(col)
	for _, term := range clientTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
