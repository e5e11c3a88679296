package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github/itish2003/deepsearch/models"
)

// ReadCSVDataset loads a CSV file whose first row is the header.
func ReadCSVDataset(path, name string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	ds.Name = name
	ds.Path = path
	return ds, nil
}

// ParseCSV reads a header row and the rows below it. Ragged rows are padded
// or truncated to the header width; blank header cells become "Unnamed: N"
// and repeated names get a ".1", ".2" suffix.
func ParseCSV(r io.Reader) (*models.Dataset, error) {
	reader := newCSVReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("no columns to parse from file")
	}
	if err != nil {
		return nil, err
	}
	columns := normalizeHeader(header)

	ds := &models.Dataset{Columns: columns}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		ds.Rows = append(ds.Rows, fitRow(row, len(columns)))
	}
	return ds, nil
}

// ReadCSVRows returns every record of a CSV file without header handling.
// Malformed lines are skipped.
func ReadCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := newCSVReader(f)
	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return rows, err
		}
		if len(rows) == 0 && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], "\ufeff")
		}
		rows = append(rows, row)
	}
}

// WriteCSVFile writes columns and rows to path, replacing any existing file.
func WriteCSVFile(path string, columns []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if n, dup := seen[h]; dup {
			name = fmt.Sprintf("%s.%d", h, n)
			seen[h] = n + 1
		} else {
			seen[h] = 1
		}
		columns[i] = name
	}
	return columns
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
