package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github/itish2003/deepsearch/models"
)

// SQLiteStore wraps one flat-table SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// ColumnSpec declares a table column and its SQLite affinity.
type ColumnSpec struct {
	Name string
	Type string // TEXT or REAL
}

// OpenSQLite opens an existing database file.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return openSQLite(path)
}

// CreateSQLite removes any existing file at path and opens a fresh database.
func CreateSQLite(path string) (*SQLiteStore, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove existing database %s: %w", path, err)
	}
	return openSQLite(path)
}

func openSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// CreateTable creates table with the given columns. When autoID is set an
// INTEGER PRIMARY KEY AUTOINCREMENT id column comes first.
func (s *SQLiteStore) CreateTable(ctx context.Context, table string, cols []ColumnSpec, autoID bool) error {
	defs := make([]string, 0, len(cols)+1)
	if autoID {
		defs = append(defs, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	}
	for _, c := range cols {
		defs = append(defs, quoteIdent(c.Name)+" "+c.Type)
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// InsertRows inserts rows in one transaction. A nil value stores NULL.
func (s *SQLiteStore) InsertRows(ctx context.Context, table string, cols []string, rows [][]any) error {
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ins, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer ins.Close()

	for i, row := range rows {
		if _, err := ins.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i, table, err)
		}
	}
	return tx.Commit()
}

// CreateIndex creates an index on table(cols).
func (s *SQLiteStore) CreateIndex(ctx context.Context, name, table string, cols ...string) error {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	stmt := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", quoteIdent(name), quoteIdent(table), strings.Join(quoted, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// Tables lists user tables in name order.
func (s *SQLiteStore) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LoadTable reads a whole table as a dataset.
func (s *SQLiteStore) LoadTable(ctx context.Context, table string) (*models.Dataset, error) {
	return s.Query(ctx, "SELECT * FROM "+quoteIdent(table))
}

// Query runs a statement and returns its rows as strings. NULL becomes "".
func (s *SQLiteStore) Query(ctx context.Context, query string, args ...any) (*models.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	ds := &models.Dataset{Path: s.path, Columns: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			row[i] = sqlString(v)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, rows.Err()
}

func sqlString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
