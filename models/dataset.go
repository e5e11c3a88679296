package models

// Dataset is an in-memory table loaded from one CSV, document or SQLite source.
// Every row has exactly len(Columns) cells.
type Dataset struct {
	Name    string     `json:"name"`
	Path    string     `json:"path"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of column, or -1.
func (d *Dataset) ColumnIndex(column string) int {
	for i, c := range d.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the dataset carries column.
func (d *Dataset) HasColumn(column string) bool {
	return d.ColumnIndex(column) >= 0
}

// Record builds the Record for row i.
func (d *Dataset) Record(i int) Record {
	values := make(map[string]string, len(d.Columns))
	for j, c := range d.Columns {
		values[c] = d.Rows[i][j]
	}
	return Record{
		File:     d.Name,
		Columns:  d.Columns,
		Values:   values,
		RowIndex: i,
	}
}

// Analysis describes the structure of a dataset.
type Analysis struct {
	FileName   string              `json:"file_name"`
	Shape      [2]int              `json:"shape"`
	Columns    []string            `json:"columns"`
	SampleData []map[string]string `json:"sample_data"`
	DataTypes  map[string]string   `json:"data_types"`
}
