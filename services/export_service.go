package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github/itish2003/deepsearch/models"
)

// Row is anything that can be written as one export row.
type Row interface {
	Keys() []string
	Value(key string) string
}

// ExportResults writes results to path. A .json extension selects an indented
// JSON array; anything else is CSV.
func ExportResults(results []models.Record, path string) error {
	return ExportRows(results, path)
}

// ExportRows writes rows to path, choosing the format from the extension.
func ExportRows[T Row](rows []T, path string) error {
	if len(rows) == 0 {
		return ErrNoResults
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = WriteJSON(f, rows)
	} else {
		err = WriteCSV(f, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes rows with a header made of every key in first-seen order.
// A row lacking a key gets an empty cell.
func WriteCSV[T Row](w io.Writer, rows []T) error {
	header := unionKeys(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		present := make(map[string]bool)
		for _, k := range r.Keys() {
			present[k] = true
		}
		line := make([]string, len(header))
		for i, k := range header {
			if present[k] {
				line[i] = r.Value(k)
			}
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON[T Row](w io.Writer, rows []T) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func unionKeys[T Row](rows []T) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range rows {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
