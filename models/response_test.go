package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	ds := &Dataset{
		Name:    "clients.csv",
		Columns: []string{"Name", "Phone", "City"},
		Rows:    [][]string{{"Anna Wong", "", "Toronto"}},
	}
	rec := ds.Record(0)
	rec.MatchScore = Score(88)
	rec.MatchingValue = "Anna Wong"
	return rec
}

func TestRecordMarshalKeepsColumnOrder(t *testing.T) {
	data, err := json.Marshal(sampleRecord())
	require.NoError(t, err)
	assert.Equal(t,
		`{"Name":"Anna Wong","Phone":"","City":"Toronto","file":"clients.csv","match_score":88,"matching_value":"Anna Wong"}`,
		string(data))

	plain := sampleRecord()
	plain.MatchScore = nil
	plain.MatchingValue = ""
	assert.Equal(t, []string{"Name", "Phone", "City", "file"}, plain.Keys())
	assert.Equal(t, "", plain.Value(FieldMatchScore))
}

func TestFormattedResultRoundTrip(t *testing.T) {
	res := NewFormattedResult(sampleRecord())
	assert.Equal(t, OrderedField{{"Name", "Anna Wong"}, {"City", "Toronto"}}, res.Fields)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t,
		`{"source_file":"clients.csv","match_score":88,"matching_value":"Anna Wong","fields":{"Name":"Anna Wong","City":"Toronto"}}`,
		string(data))

	var back FormattedResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, res, back)
}

func TestOrderedFieldUnmarshalKeepsLiterals(t *testing.T) {
	var o OrderedField
	require.NoError(t, json.Unmarshal([]byte(`{"b":"x","a":12,"c":true}`), &o))
	assert.Equal(t, OrderedField{{"b", "x"}, {"a", "12"}, {"c", "true"}}, o)
}

func TestFlatten(t *testing.T) {
	flat := NewFormattedResult(sampleRecord()).Flatten()
	assert.Equal(t, []string{"Source File", "Match Score", "Matching Value", "Name", "City"}, flat.Keys())
	assert.Equal(t, "88", flat.Value("Match Score"))
	assert.Equal(t, "", flat.Value("Phone"))

	exact := sampleRecord()
	exact.MatchScore = nil
	exact.MatchingValue = ""
	flat = NewFormattedResult(exact).Flatten()
	assert.Equal(t, []string{"Source File", "Name", "City"}, flat.Keys())

	data, err := json.Marshal(flat)
	require.NoError(t, err)
	assert.Equal(t, `{"Source File":"clients.csv","Name":"Anna Wong","City":"Toronto"}`, string(data))
}

func TestDatasetHelpers(t *testing.T) {
	ds := &Dataset{Name: "x.csv", Columns: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	assert.Equal(t, 1, ds.ColumnIndex("b"))
	assert.Equal(t, -1, ds.ColumnIndex("c"))
	assert.True(t, ds.HasColumn("a"))

	rec := ds.Record(0)
	v, ok := rec.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, "x.csv", rec.File)
}
