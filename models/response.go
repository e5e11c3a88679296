package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FormattedResult is a Record as the web front end sees it.
type FormattedResult struct {
	SourceFile    string       `json:"source_file"`
	MatchScore    *int         `json:"match_score"`
	MatchingValue *string      `json:"matching_value"`
	Fields        OrderedField `json:"fields"`
}

// OrderedField is a list of name/value pairs that marshals as a JSON object
// without losing column order.
type OrderedField []Field

// Field is one named value.
type Field struct {
	Name  string
	Value string
}

// MarshalJSON writes the fields as an object in order.
func (o OrderedField) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order.
func (o *OrderedField) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var out OrderedField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			// Numbers and booleans keep their literal text.
			s = string(raw)
		}
		out = append(out, Field{Name: key, Value: s})
	}
	*o = out
	return nil
}

// NewFormattedResult keeps only the non-empty data fields of r.
func NewFormattedResult(r Record) FormattedResult {
	res := FormattedResult{SourceFile: r.File, MatchScore: r.MatchScore}
	if r.MatchingValue != "" {
		mv := r.MatchingValue
		res.MatchingValue = &mv
	}
	for _, c := range r.Columns {
		if isMetadataKey(c) {
			continue
		}
		if v := r.Values[c]; v != "" {
			res.Fields = append(res.Fields, Field{Name: c, Value: v})
		}
	}
	return res
}

// FlatResult is the export shape of a FormattedResult.
type FlatResult struct {
	fields OrderedField
}

// Flatten turns a FormattedResult into export columns.
func (f FormattedResult) Flatten() FlatResult {
	out := OrderedField{{Name: "Source File", Value: f.SourceFile}}
	if f.MatchScore != nil && *f.MatchScore != 0 {
		out = append(out, Field{Name: "Match Score", Value: strconv.Itoa(*f.MatchScore)})
	}
	if f.MatchingValue != nil && *f.MatchingValue != "" {
		out = append(out, Field{Name: "Matching Value", Value: *f.MatchingValue})
	}
	out = append(out, f.Fields...)
	return FlatResult{fields: out}
}

// Keys lists export columns in order.
func (f FlatResult) Keys() []string {
	keys := make([]string, len(f.fields))
	for i, fld := range f.fields {
		keys[i] = fld.Name
	}
	return keys
}

// Value returns the value for key, or "".
func (f FlatResult) Value(key string) string {
	for _, fld := range f.fields {
		if fld.Name == key {
			return fld.Value
		}
	}
	return ""
}

// MarshalJSON writes the flattened result as an ordered object.
func (f FlatResult) MarshalJSON() ([]byte, error) {
	return f.fields.MarshalJSON()
}

// SearchResponse is the JSON body of a successful /search.
type SearchResponse struct {
	Success           bool                `json:"success"`
	SearchID          string              `json:"search_id"`
	Query             string              `json:"query"`
	ResultsCount      int                 `json:"results_count"`
	Results           []FormattedResult   `json:"results"`
	ColumnSuggestions map[string][]string `json:"column_suggestions,omitempty"`
}

// ErrorResponse is the JSON body of any failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AnalyzeResponse is the JSON body of /analyze.
type AnalyzeResponse struct {
	Success  bool      `json:"success"`
	Analysis *Analysis `json:"analysis"`
}

// ColumnsResponse is the JSON body of /get_columns.
type ColumnsResponse struct {
	Success bool     `json:"success"`
	Columns []string `json:"columns"`
}
