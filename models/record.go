package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Metadata keys added to a Record at search time.
const (
	FieldFile          = "file"
	FieldMatchScore    = "match_score"
	FieldMatchingValue = "matching_value"
)

// Record is one row of one dataset, plus where and how it matched.
// Empty strings stand for missing cells.
type Record struct {
	File          string
	Columns       []string
	Values        map[string]string
	MatchingValue string
	MatchScore    *int
	RowIndex      int
}

// Get returns the value of a data column.
func (r Record) Get(column string) (string, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Keys lists the data columns followed by the metadata fields that are set.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Columns)+3)
	for _, c := range r.Columns {
		if isMetadataKey(c) {
			continue
		}
		keys = append(keys, c)
	}
	keys = append(keys, FieldFile)
	if r.MatchScore != nil {
		keys = append(keys, FieldMatchScore)
	}
	if r.MatchingValue != "" {
		keys = append(keys, FieldMatchingValue)
	}
	return keys
}

// Value returns the string form of any key reported by Keys.
func (r Record) Value(key string) string {
	switch key {
	case FieldFile:
		return r.File
	case FieldMatchScore:
		if r.MatchScore == nil {
			return ""
		}
		return strconv.Itoa(*r.MatchScore)
	case FieldMatchingValue:
		return r.MatchingValue
	}
	return r.Values[key]
}

// MarshalJSON writes the record as a flat object in column order. The match
// score is emitted as a number.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		var v []byte
		if key == FieldMatchScore {
			v, err = json.Marshal(*r.MatchScore)
		} else {
			v, err = json.Marshal(r.Value(key))
		}
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Score returns a pointer suitable for Record.MatchScore.
func Score(v int) *int {
	return &v
}

func isMetadataKey(k string) bool {
	return k == FieldFile || k == FieldMatchScore || k == FieldMatchingValue
}
