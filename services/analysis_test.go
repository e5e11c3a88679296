package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github/itish2003/deepsearch/models"
)

func TestAnalyzeDatasetTypes(t *testing.T) {
	ds := &models.Dataset{
		Name:    "mixed.csv",
		Columns: []string{"id", "price", "count", "name", "blank"},
		Rows: [][]string{
			{"1", "1.5", "3", "Anna", ""},
			{"2", "2", "", "Bob", ""},
			{"3", "-4.25", "7", "Carla", ""},
		},
	}

	a := AnalyzeDataset(ds)
	assert.Equal(t, "mixed.csv", a.FileName)
	assert.Equal(t, [2]int{3, 5}, a.Shape)
	assert.Equal(t, map[string]string{
		"id":    "int64",
		"price": "float64",
		"count": "float64",
		"name":  "object",
		"blank": "float64",
	}, a.DataTypes)
	assert.Len(t, a.SampleData, 3)
}

func TestAnalyzeDatasetSamplesFirstRows(t *testing.T) {
	ds := &models.Dataset{Name: "many.csv", Columns: []string{"n"}}
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		ds.Rows = append(ds.Rows, []string{v})
	}

	a := AnalyzeDataset(ds)
	assert.Len(t, a.SampleData, 5)
	assert.Equal(t, "e", a.SampleData[4]["n"])

	empty := AnalyzeDataset(&models.Dataset{Name: "empty.csv", Columns: []string{"x"}})
	assert.Equal(t, "object", empty.DataTypes["x"])
	assert.NotNil(t, empty.SampleData)
}

func TestExtractSearchPattern(t *testing.T) {
	tests := map[string]string{
		"call anna@example.com about the roof": "anna@example.com",
		"phone 416-555-1234 after five":        "416-555-1234",
		"postal code M5V 2T6 downtown":         "M5V 2T6",
		"find Anna Wong please":                "Anna Wong",
		"roof repair":                          "roof repair",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExtractSearchPattern(in), in)
	}
}
