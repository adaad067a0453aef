package testmodel

// OperationCall is one #op[...] invocation found in a cell
type OperationCall struct {
	Operation string           `json:"operation"`
	Values    []ParameterValue `json:"param_details"`
}

// CellMarkup is everything extracted from one cell
type CellMarkup struct {
	Descriptions []string        `json:"Descriptions"`
	Calls        []OperationCall `json:"Operations"`
	Parameters   []string        `json:"-"` // bare #p[...] markers, recognized but not emitted as calls
}

// IsEmpty reports whether nothing was extracted
func (c CellMarkup) IsEmpty() bool {
	return len(c.Descriptions) == 0 && len(c.Calls) == 0 && len(c.Parameters) == 0
}

// RowRecord is what one spreadsheet row contributed to a run
type RowRecord struct {
	Index    int
	Sections map[Section]CellMarkup
	Calls    []OperationCall
}

// IsEmpty reports whether the row held no markup at all
func (r RowRecord) IsEmpty() bool {
	return len(r.Sections) == 0
}
