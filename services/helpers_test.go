package services

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github/itish2003/deepsearch/config"
	"github/itish2003/deepsearch/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testConfig returns defaults rooted at a fresh temporary data directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return cfg
}

func clientsDataset() *models.Dataset {
	return &models.Dataset{
		Name:    "clients.csv",
		Columns: []string{"Name", "Email", "City", "Joined"},
		Rows: [][]string{
			{"Anna Wong", "anna@example.com", "Toronto", "2024-01-15"},
			{"Bob Smith", "bob@example.com", "Ottawa", "2023-06-01"},
			{"Carla Diaz", "carla@example.com", "Toronto", "2024-03-02"},
		},
	}
}

func jobsDataset() *models.Dataset {
	return &models.Dataset{
		Name:    "jobs.csv",
		Columns: []string{"Client", "Notes", "Date"},
		Rows: [][]string{
			{"Anna Wong ", "fix roof", "01/20/2024"},
			{"Dan Brown", "paint", "02/10/2024"},
		},
	}
}

func fileRows(results []models.Record) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = fmt.Sprintf("%s#%d", r.File, r.RowIndex)
	}
	return out
}
