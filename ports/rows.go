package ports

import "strings"

// Row is one spreadsheet row keyed by column header
type Row map[string]string

// Cell returns the content of a column; missing and blank cells are absent
func (r Row) Cell(column string) (string, bool) {
	value, ok := r[column]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// RowSource supplies the ordered rows of a test case sheet
type RowSource interface {
	ReadRows() ([]Row, error)
}
