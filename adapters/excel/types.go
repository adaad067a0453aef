package excel

import "tcdump/ports"

// SheetData represents one test case sheet
type SheetData struct {
	Sheet   string      // Sheet name, empty for csv
	Headers []string    // Column headers
	Rows    []ports.Row // Data rows
}
