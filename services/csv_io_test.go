package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVNormalizesHeader(t *testing.T) {
	input := "\ufeffName,,Name\nAnna,x\nBob,y,z,extra\n"

	ds, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Unnamed: 1", "Name.1"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, []string{"Anna", "x", ""}, ds.Rows[0])
	assert.Equal(t, []string{"Bob", "y", "z"}, ds.Rows[1])
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadCSVDatasetSetsNameAndPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clients.csv", "Name,City\nAnna,Toronto\n")

	ds, err := ReadCSVDataset(path, "clients.csv")
	require.NoError(t, err)
	assert.Equal(t, "clients.csv", ds.Name)
	assert.Equal(t, path, ds.Path)
	assert.Equal(t, 1, ds.Len())

	_, err = ReadCSVDataset(dir+"/missing.csv", "missing.csv")
	assert.Error(t, err)
}

func TestWriteCSVFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.csv"

	require.NoError(t, WriteCSVFile(path, []string{"a", "b"}, [][]string{{"1", "two, three"}}))

	rows, err := ReadCSVRows(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "two, three"}}, rows)
}
