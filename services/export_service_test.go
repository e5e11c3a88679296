package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/itish2003/deepsearch/models"
)

func exportRecords() []models.Record {
	a := clientsDataset().Record(0)
	a.MatchingValue = "Anna Wong"
	b := jobsDataset().Record(0)
	b.MatchScore = models.Score(90)
	return []models.Record{a, b}
}

func TestExportResultsCSVUnionHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, ExportResults(exportRecords(), path))

	rows, err := ReadCSVRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Email", "City", "Joined", "file", "matching_value", "Client", "Notes", "Date", "match_score"}, rows[0])
	assert.Equal(t, []string{"Anna Wong", "anna@example.com", "Toronto", "2024-01-15", "clients.csv", "Anna Wong", "", "", "", ""}, rows[1])
	assert.Equal(t, []string{"", "", "", "", "jobs.csv", "", "Anna Wong ", "fix roof", "01/20/2024", "90"}, rows[2])
}

func TestExportResultsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.JSON")

	require.NoError(t, ExportResults(exportRecords(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "clients.csv", got[0]["file"])
	assert.NotContains(t, got[0], "match_score")
	assert.Equal(t, float64(90), got[1]["match_score"])
	assert.Contains(t, string(data), "\n  {")
}

func TestExportResultsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	err := ExportResults(nil, path)
	assert.ErrorIs(t, err, ErrNoResults)
	assert.NoFileExists(t, path)
}
