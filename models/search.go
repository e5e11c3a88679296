package models

// SearchOptions narrows an exact or fuzzy search.
type SearchOptions struct {
	CaseSensitive bool
	// Columns restricts matching to these columns; empty means all columns.
	Columns []string
	// Threshold is the minimum fuzzy score (0-100).
	Threshold int
}

// CombinedQuery drives CombinedSearch.
type CombinedQuery struct {
	Query         string
	Fuzzy         bool
	MinScore      int
	CaseSensitive bool
	Columns       []string
	StartDate     string
	EndDate       string
	DateColumns   []string
	// Filters keeps records whose column contains the value, case-insensitively.
	Filters map[string]string
}
