package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tcdump/domain/core"
	"tcdump/domain/testmodel"
	"tcdump/internal"
	"tcdump/ports"
)

// byteOrderMark is written at the start of "CSV UTF-8" exports
const byteOrderMark = "\ufeff"

// DataReader handles reading Excel and CSV test case sheets
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

var _ ports.RowSource = (*DataReader)(nil)

// NewDataReader creates a new data reader that handles both Excel and CSV files.
// An empty sheet selects the first sheet of the workbook.
func NewDataReader(filePath, sheet string, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	switch ext {
	case ".csv":
		fileType = "csv"
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
	default:
		fileType = ext
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: sheet, logger: logger}
}

// ReadRows reads the data rows of the sheet keyed by header
func (r *DataReader) ReadRows() ([]ports.Row, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return data.Rows, nil
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*SheetData, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.filePath)

	// Check if file exists
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s file %s: %w", core.ErrNotFound, strings.ToUpper(r.fileType), r.filePath, os.ErrNotExist)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("%w: file type %q of %s", core.ErrUnsupportedInput, r.fileType, r.filePath)
	}
}

// readExcelData reads the configured sheet, or the first one, into structured format
func (r *DataReader) readExcelData() (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file %s: %w", r.filePath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet := r.sheet
	switch {
	case sheet != "":
		if !slices.Contains(sheets, sheet) {
			return nil, core.NewNotFoundError("sheet", sheet)
		}
	case len(sheets) == 0:
		return nil, fmt.Errorf("%w: %s has no sheets", core.ErrEmptySheet, r.filePath)
	default:
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, r.filePath, err)
	}
	r.logger.Debug("sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	data, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	data.Sheet = sheet
	return data, nil
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", r.filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", r.filePath, err)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows into SheetData format. Cells beyond the
// header width are dropped; blank cells are left out of the row.
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", core.ErrEmptySheet, r.filePath)
	}

	// Extract headers from first row
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, byteOrderMark)
		}
		headers[i] = strings.TrimSpace(header)
	}
	if !hasSectionColumn(headers) {
		r.logger.Warn("%s has none of the columns %s; no calls will be extracted", r.filePath, sectionColumns())
	}

	// Extract data rows
	dataRows := make([]ports.Row, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(ports.Row)
		for j, cell := range rows[i] {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			rowData[headers[j]] = cell
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Info("%s processed (%d columns, %d rows)", r.filePath, len(headers), len(dataRows))

	return &SheetData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func hasSectionColumn(headers []string) bool {
	for _, header := range headers {
		for _, section := range testmodel.Sections {
			if header == section.Column() {
				return true
			}
		}
	}
	return false
}

func sectionColumns() string {
	columns := make([]string, len(testmodel.Sections))
	for i, section := range testmodel.Sections {
		columns[i] = strconv.Quote(section.Column())
	}
	return strings.Join(columns, ", ")
}
