package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleSchedule = "COMPANY: Header Co,Phone: 111-111-1111,\n" +
	"COMPANY: Acme Roofing,Phone: 416-555-1234,\n" +
	"Address: 12 King Street,Notes: side door,\n" +
	",,\n" +
	"COMPANY: Beta Paint,Contact ops@beta.com,\n"

func TestScheduleDate(t *testing.T) {
	assert.Equal(t, "2024-01-15", ScheduleDate("/x/Schedule 01_15_24.csv"))
	assert.Equal(t, "Unknown", ScheduleDate(filepath.Join(t.TempDir(), "missing.csv")))

	dir := t.TempDir()
	path := writeFile(t, dir, "today.csv", "x\n")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, ScheduleDate(path))
}

func TestProcessFile(t *testing.T) {
	cfg := testConfig(t)
	path := writeFile(t, cfg.DataDir, "01_15_24.csv", sampleSchedule)

	jobs, err := NewScheduleProcessor(cfg, zap.NewNop()).ProcessFile(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, []string{FieldScheduleDate, FieldSourceFile, "COMPANY", "Phone", "Address", "Notes"}, first.keys)
	assert.Equal(t, "Acme Roofing", first.values["COMPANY"])
	assert.Equal(t, "416-555-1234", first.values["Phone"])
	assert.Equal(t, "12 King Street", first.values["Address"])
	assert.Equal(t, "2024-01-15", first.values[FieldScheduleDate])
	assert.Equal(t, "01_15_24.csv", first.values[FieldSourceFile])

	second := jobs[1]
	assert.Equal(t, "Beta Paint", second.values["COMPANY"])
	assert.Equal(t, "ops@beta.com", second.values["Email"])
}

func TestConsolidateSchedules(t *testing.T) {
	cfg := testConfig(t)
	dir := filepath.Join(cfg.DataDir, cfg.SchedulesDir)
	writeFile(t, dir, "01_15_24.csv", sampleSchedule)
	writeFile(t, dir, "01_16_24.csv", "Schedule,\nCOMPANY: Gamma Glass,Crew: B,\n")
	writeFile(t, dir, "blank.csv", "only a header\n")

	p := NewScheduleProcessor(cfg, zap.NewNop())
	require.True(t, p.Available())

	columns, rows, err := p.Consolidate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{FieldScheduleDate, FieldSourceFile, "COMPANY", "Phone", "Address", "Notes", "Email", "Crew"}, columns)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-01-16", "01_16_24.csv", "Gamma Glass", "", "", "", "", "B"}, rows[2])

	require.NoError(t, p.Generate(context.Background()))
	ds, err := ReadCSVDataset(cfg.Path(p.Output()), p.Output())
	require.NoError(t, err)
	assert.Equal(t, columns, ds.Columns)
	assert.Equal(t, 3, ds.Len())
}

func TestConsolidateSchedulesErrors(t *testing.T) {
	cfg := testConfig(t)
	p := NewScheduleProcessor(cfg, zap.NewNop())

	assert.False(t, p.Available())
	_, _, err := p.Consolidate(context.Background())
	assert.ErrorIs(t, err, ErrFileNotFound)

	writeFile(t, filepath.Join(cfg.DataDir, cfg.SchedulesDir), "01_15_24.csv", "COMPANY: Header Co,Phone: 1\n")
	_, _, err = p.Consolidate(context.Background())
	assert.ErrorIs(t, err, ErrNoJobs)
}
