package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"

	assert.Equal(t, filepath.Join("/data", "GKeep_Structured.csv"), cfg.Path(cfg.NotesOutput))
	assert.Equal(t, "/abs/schedules.db", cfg.Path("/abs/schedules.db"))
	assert.Equal(t, 70, cfg.FuzzyThreshold)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DEEPSEARCH_DATA_DIR", "/srv/records")
	t.Setenv("DEEPSEARCH_PORT", "9090")
	t.Setenv("DEEPSEARCH_FUZZY_THRESHOLD", "85")
	t.Setenv("DEEPSEARCH_SQLITE_SOURCES", "quickbooks.db, schedules.db ,")
	t.Setenv("DEEPSEARCH_DEBUG", "true")

	cfg := Default()
	require.NoError(t, cfg.applyEnv())

	assert.Equal(t, "/srv/records", cfg.DataDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 85, cfg.FuzzyThreshold)
	assert.Equal(t, []string{"quickbooks.db", "schedules.db"}, cfg.SQLiteSources)
	assert.True(t, cfg.Debug)
}

func TestApplyEnvRejectsBadThreshold(t *testing.T) {
	t.Setenv("DEEPSEARCH_FUZZY_THRESHOLD", "140")

	err := Default().applyEnv()
	assert.Error(t, err)
}

func TestReadRulesMissingFileKeepsDefaults(t *testing.T) {
	rules, err := ReadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}

func TestReadRulesParsesContacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `notes:
  chunk_size: 400
  contacts:
    - name: Jane Doe
      pattern: 'JANE\s+DOE.*?Maple'
      address: 12 Maple Street, Toronto
      email: jane@example.com
      always_include: true
schedules:
  job_marker: "CLIENT:"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := ReadRules(path)
	require.NoError(t, err)

	assert.Equal(t, 400, rules.Notes.ChunkSize)
	assert.Equal(t, 300, rules.Notes.ContextAfter, "unset fields keep defaults")
	require.Len(t, rules.Notes.Contacts, 1)
	assert.Equal(t, "Jane Doe", rules.Notes.Contacts[0].Name)
	assert.True(t, rules.Notes.Contacts[0].AlwaysInclude)
	assert.Equal(t, "CLIENT:", rules.Schedules.JobMarker)
}

func TestReadRulesRejectsBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `notes:
  contacts:
    - name: Broken
      pattern: '(unclosed'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadRules(path)
	assert.ErrorContains(t, err, "Broken")
}
