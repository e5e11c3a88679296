package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	ctx := context.Background()

	_, err := OpenSQLite(path)
	require.ErrorIs(t, err, ErrFileNotFound)

	store, err := CreateSQLite(path)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())

	cols := []ColumnSpec{{Name: "Client Name", Type: "TEXT"}, {Name: `Odd "Col"`, Type: "REAL"}}
	require.NoError(t, store.CreateTable(ctx, "jobs", cols, true))
	require.NoError(t, store.InsertRows(ctx, "jobs", []string{"Client Name", `Odd "Col"`}, [][]any{
		{"Acme", 1.5},
		{"Beta", nil},
	}))
	require.NoError(t, store.CreateIndex(ctx, "idx_client", "jobs", "Client Name"))

	tables, err := store.Tables(ctx)
	require.NoError(t, err)
	assert.Contains(t, tables, "jobs")
	assert.NotContains(t, tables, "sqlite_sequence")

	ds, err := store.LoadTable(ctx, "jobs")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Client Name", `Odd "Col"`}, ds.Columns)
	assert.Equal(t, [][]string{{"1", "Acme", "1.5"}, {"2", "Beta", ""}}, ds.Rows)

	ds, err = store.Query(ctx, `SELECT "Client Name" FROM jobs WHERE id = ?`, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Beta"}}, ds.Rows)

	_, err = store.Query(ctx, "SELECT * FROM nope")
	assert.Error(t, err)
}

func TestCreateSQLiteReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	ctx := context.Background()

	store, err := CreateSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.CreateTable(ctx, "old", []ColumnSpec{{Name: "a", Type: "TEXT"}}, false))
	require.NoError(t, store.Close())

	store, err = CreateSQLite(path)
	require.NoError(t, err)
	defer store.Close()
	tables, err := store.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}
