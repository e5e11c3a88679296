package models

// SearchRequest is the form posted to /search. Checkbox fields count as set
// when present in the form, whatever their value.
type SearchRequest struct {
	Query          string `form:"query"`
	Fuzzy          bool   `form:"-"`
	Columns        string `form:"columns"`
	StartDate      string `form:"start_date"`
	EndDate        string `form:"end_date"`
	Debug          bool   `form:"-"`
	ExtractPattern string `form:"extract_pattern"`
	HTMLOutput     bool   `form:"-"`
}

// ExportRequest is the form posted to /export. Results holds the JSON array
// previously returned by /search.
type ExportRequest struct {
	Format  string `form:"format"`
	Results string `form:"results"`
}

// FileRequest is the form posted to /analyze and /get_columns.
type FileRequest struct {
	FileName string `form:"file_name"`
}
