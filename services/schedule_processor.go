package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github/itish2003/deepsearch/config"
)

const (
	FieldScheduleDate = "Schedule_Date"
	FieldSourceFile   = "Source_File"
)

var (
	scheduleDateToken = regexp.MustCompile(`(\d{2})_(\d{2})_(\d{2})`)
	jobAddressPattern = regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s]+(?:Avenue|Street|St|Ave|Road|Rd|Drive|Dr|Circle|Court|Crt|Blvd|Boulevard)(?:[,\s]+[A-Za-z\s]+)?(?:[,\s]+[A-Za-z]{2})?(?:[,\s]+[A-Z0-9]{5,7})?)`)
	jobPhonePattern   = regexp.MustCompile(`(\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`)
	jobEmailPattern   = regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
)

// job is an insertion-ordered set of fields.
type job struct {
	keys   []string
	values map[string]string
}

func newJob() *job {
	return &job{values: make(map[string]string)}
}

func (j *job) set(k, v string) {
	if _, ok := j.values[k]; !ok {
		j.keys = append(j.keys, k)
	}
	j.values[k] = v
}

func (j *job) has(k string) bool {
	_, ok := j.values[k]
	return ok
}

// ScheduleProcessor consolidates daily schedule exports into one dataset.
type ScheduleProcessor struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewScheduleProcessor creates the generator for the consolidated schedule dataset.
func NewScheduleProcessor(cfg *config.Config, logger *zap.Logger) *ScheduleProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleProcessor{cfg: cfg, logger: logger.Named("schedules")}
}

func (p *ScheduleProcessor) Output() string     { return p.cfg.ScheduleOutput }
func (p *ScheduleProcessor) Supersedes() string { return "" }

func (p *ScheduleProcessor) Available() bool {
	info, err := os.Stat(p.cfg.Path(p.cfg.SchedulesDir))
	return err == nil && info.IsDir()
}

// Generate processes every schedule file and writes the consolidated dataset.
func (p *ScheduleProcessor) Generate(ctx context.Context) error {
	columns, rows, err := p.Consolidate(ctx)
	if err != nil {
		return err
	}
	out := p.cfg.Path(p.cfg.ScheduleOutput)
	if err := WriteCSVFile(out, columns, rows); err != nil {
		return err
	}
	p.logger.Info("consolidated schedules written", zap.String("file", out), zap.Int("jobs", len(rows)))
	return nil
}

// Consolidate reads every CSV in the schedules folder and returns the jobs
// found, with columns in first-seen order. A file that cannot be read is
// logged and skipped.
func (p *ScheduleProcessor) Consolidate(ctx context.Context) ([]string, [][]string, error) {
	dir := p.cfg.Path(p.cfg.SchedulesDir)
	files, err := listFiles(dir, ".csv")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: schedule folder %s", ErrFileNotFound, dir)
	}
	p.logger.Info("found daily schedule files", zap.String("dir", dir), zap.Int("count", len(files)))

	var jobs []*job
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		path := filepath.Join(dir, name)
		found, err := p.ProcessFile(path)
		if err != nil {
			p.logger.Error("error processing schedule file", zap.String("file", path), zap.Error(err))
			continue
		}
		p.logger.Debug("processed schedule file", zap.String("file", path), zap.Int("jobs", len(found)))
		jobs = append(jobs, found...)
	}
	if len(jobs) == 0 {
		return nil, nil, ErrNoJobs
	}

	var columns []string
	seen := make(map[string]bool)
	for _, j := range jobs {
		for _, k := range j.keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	rows := make([][]string, len(jobs))
	for i, j := range jobs {
		row := make([]string, len(columns))
		for c, k := range columns {
			row[c] = j.values[k]
		}
		rows[i] = row
	}
	return columns, rows, nil
}

// ProcessFile extracts jobs from one schedule export. The header row is
// skipped; the job marker starts a new job.
func (p *ScheduleProcessor) ProcessFile(path string) ([]*job, error) {
	records, err := ReadCSVRows(path)
	if err != nil {
		return nil, err
	}
	date := ScheduleDate(path)
	source := filepath.Base(path)
	marker := p.cfg.Rules.Schedules.JobMarker

	var jobs []*job
	current := newJob()
	flush := func() {
		if len(current.keys) > 1 {
			if !current.has(FieldScheduleDate) {
				current.set(FieldScheduleDate, date)
			}
			if !current.has(FieldSourceFile) {
				current.set(FieldSourceFile, source)
			}
			jobs = append(jobs, current)
		}
		current = newJob()
	}

	if len(records) > 0 {
		records = records[1:]
	}
	for _, row := range records {
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if strings.Contains(cell, marker) {
				flush()
				current.set(FieldScheduleDate, date)
				current.set(FieldSourceFile, source)
			}
			if key, value, ok := strings.Cut(cell, ":"); ok {
				key, value = strings.TrimSpace(key), strings.TrimSpace(value)
				if key != "" && value != "" {
					current.set(key, value)
				}
			}
			if !current.has("Address") {
				if m := jobAddressPattern.FindString(cell); m != "" {
					current.set("Address", m)
				}
			}
			if !current.has("Phone") {
				if m := jobPhonePattern.FindString(cell); m != "" {
					current.set("Phone", m)
				}
			}
			if !current.has("Email") {
				if m := jobEmailPattern.FindString(cell); m != "" {
					current.set("Email", m)
				}
			}
		}
	}
	flush()
	return jobs, nil
}

// ScheduleDate derives a YYYY-MM-DD date from an MM_DD_YY token in the file
// name, falling back to the modification date, then to "Unknown".
func ScheduleDate(path string) string {
	if m := scheduleDateToken.FindStringSubmatch(filepath.Base(path)); m != nil {
		return fmt.Sprintf("20%s-%s-%s", m[3], m[1], m[2])
	}
	info, err := os.Stat(path)
	if err != nil {
		return "Unknown"
	}
	return info.ModTime().Format("2006-01-02")
}
