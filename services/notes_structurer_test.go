package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github/itish2003/deepsearch/config"
)

const sampleNotes = "Met tom baker today, email tom.b@mail.com\n\n" +
	"Anna Wong\nanna@example.com\n12 King Street West\n"

func notesConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Rules.Notes.ChunkSize = 60
	cfg.Rules.Notes.Contacts = []config.ContactRule{
		{Name: "Tom Baker", Pattern: `tom\s+baker`, Address: "1 Main St", Email: "tom@known.com"},
		{Name: "Ruth Lee", Phone: "905-555-0000", AlwaysInclude: true},
	}
	require.NoError(t, cfg.Rules.Validate())
	return cfg
}

func TestStructureNotes(t *testing.T) {
	cfg := notesConfig(t)

	contacts, err := NewNotesStructurer(cfg, zap.NewNop()).Structure(context.Background(), sampleNotes)
	require.NoError(t, err)
	require.Len(t, contacts, 3)

	tom := contacts[0]
	assert.Equal(t, "Tom Baker", tom.FullName)
	assert.Equal(t, "1 Main St", tom.Address)
	assert.Equal(t, "tom.b@mail.com", tom.Email)
	assert.Empty(t, tom.Phone)
	assert.Equal(t, cfg.NotesSource, tom.Source)
	assert.NotContains(t, tom.Notes, "\n")

	ruth := contacts[1]
	assert.Equal(t, "Ruth Lee", ruth.FullName)
	assert.Equal(t, "905-555-0000", ruth.Phone)
	assert.Equal(t, "Added from known information", ruth.Notes)

	anna := contacts[2]
	assert.Equal(t, "Anna Wong", anna.FullName)
	assert.Equal(t, "anna@example.com", anna.Email)
	assert.Equal(t, "12 King Street West", anna.Address)
}

func TestStructureNotesDedupesByName(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules.Notes.Contacts = []config.ContactRule{{Name: "Anna Wong", Pattern: "anna wong", Email: "known@example.com"}}

	contacts, err := NewNotesStructurer(cfg, zap.NewNop()).Structure(context.Background(), "Anna Wong\nanna@example.com\n")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "anna@example.com", contacts[0].Email)

	unique := dedupeContacts([]Contact{{FullName: "Bob Smith"}, {FullName: "bob smith", Email: "x@y.z"}})
	require.Len(t, unique, 1)
	assert.Empty(t, unique[0].Email)
}

func TestGenerateNotes(t *testing.T) {
	cfg := notesConfig(t)
	n := NewNotesStructurer(cfg, zap.NewNop())
	assert.False(t, n.Available())
	assert.ErrorIs(t, n.Generate(context.Background()), ErrFileNotFound)

	writeFile(t, cfg.DataDir, cfg.NotesSource, sampleNotes)
	assert.True(t, n.Available())
	require.NoError(t, n.Generate(context.Background()))

	ds, err := ReadCSVDataset(cfg.Path(n.Output()), n.Output())
	require.NoError(t, err)
	assert.Equal(t, NotesColumns, ds.Columns)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, cfg.NotesSource, n.Supersedes())
}

func TestContextWindowKeepsRunes(t *testing.T) {
	text := "café au lait"
	// byte 4 is inside the two-byte "é"
	assert.Equal(t, "café", contextWindow(text, 0, 4))
	assert.Equal(t, text, contextWindow(text, -10, 100))
}
