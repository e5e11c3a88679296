package services

import (
	"regexp"
	"strconv"
	"strings"

	"github/itish2003/deepsearch/models"
)

const analysisSampleRows = 5

// AnalyzeDataset reports the shape, columns, first rows and inferred column
// types of ds.
func AnalyzeDataset(ds *models.Dataset) *models.Analysis {
	a := &models.Analysis{
		FileName:   ds.Name,
		Shape:      [2]int{ds.Len(), len(ds.Columns)},
		Columns:    ds.Columns,
		SampleData: make([]map[string]string, 0, analysisSampleRows),
		DataTypes:  make(map[string]string, len(ds.Columns)),
	}
	for i := 0; i < ds.Len() && i < analysisSampleRows; i++ {
		a.SampleData = append(a.SampleData, ds.Record(i).Values)
	}
	for c, name := range ds.Columns {
		a.DataTypes[name] = columnType(ds, c)
	}
	return a
}

// columnType mirrors dataframe dtypes: int64 when every non-empty cell is an
// integer, float64 when every one is numeric (empty cells force float64), else
// object.
func columnType(ds *models.Dataset, c int) string {
	allInt, sawEmpty, sawValue := true, false, false
	for _, row := range ds.Rows {
		v := strings.TrimSpace(row[c])
		if v == "" {
			sawEmpty = true
			continue
		}
		sawValue = true
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "object"
		}
		allInt = false
	}
	switch {
	case !sawValue:
		if sawEmpty {
			return "float64"
		}
		return "object"
	case allInt && !sawEmpty:
		return "int64"
	default:
		return "float64"
	}
}

// searchPatterns are tried in order by ExtractSearchPattern.
var searchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	regexp.MustCompile(`\b(?:\+\d{1,2}\s)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`),
	regexp.MustCompile(`\b[A-Za-z]\d[A-Za-z][ -]?\d[A-Za-z]\d\b`),
	regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`),
}

// ExtractSearchPattern pulls the first email, phone number, postal code or
// "First Last" name out of a free-form query. Without any, the query is
// returned as is.
func ExtractSearchPattern(query string) string {
	for _, re := range searchPatterns {
		if m := re.FindString(query); m != "" {
			return m
		}
	}
	return query
}
