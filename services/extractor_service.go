package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github/itish2003/deepsearch/models"
)

// ConfigurePDFLicense registers a metered UniDoc key. Without one, PDF
// documents fail to extract and are skipped by the loader.
func ConfigurePDFLicense(key string) error {
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set unidoc license key: %w", err)
	}
	return nil
}

// IsDocumentFile reports whether path has an extractor.
func IsDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}

// ExtractPages returns the text of each page. Plain text files are one page.
func ExtractPages(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".txt", ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []string{string(content)}, nil
	case ".pdf":
		return extractPagesFromPDF(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}

// LoadDocumentDataset turns a document into rows of page, line, text with one
// row per non-blank line.
func LoadDocumentDataset(path, name string) (*models.Dataset, error) {
	pages, err := ExtractPages(path)
	if err != nil {
		return nil, err
	}

	ds := &models.Dataset{
		Name:    name,
		Path:    path,
		Columns: []string{"page", "line", "text"},
	}
	for p, page := range pages {
		lineNo := 0
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lineNo++
			ds.Rows = append(ds.Rows, []string{strconv.Itoa(p + 1), strconv.Itoa(lineNo), line})
		}
	}
	return ds, nil
}

// extractPagesFromPDF uses UniPDF to get the text of every page.
func extractPagesFromPDF(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return nil, err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return nil, err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return nil, err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}

	return pages, nil
}
