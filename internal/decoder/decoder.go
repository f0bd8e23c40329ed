// Package decoder turns uploaded spreadsheet bytes into an ordered table of
// text cells. CSV and XLSX are supported; only the first sheet of an XLSX
// workbook is read.
package decoder

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not a
	// recognized spreadsheet format.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoDataRows is returned when the file decodes to a header-only or
	// fully empty sheet.
	ErrNoDataRows = errors.New("no data rows found in file")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// Table holds the decoded contents of the first sheet: the raw header labels
// in left-to-right order and every data row, each padded or truncated to the
// header's width. All values are text; type inference is deliberately not
// attempted.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Decode parses the uploaded payload according to the file extension.
func Decode(fileName string, payload []byte) (Table, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return decodeCSV(payload)
	case ".xlsx":
		return decodeExcel(payload)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func decodeCSV(payload []byte) (Table, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	return buildTable(records)
}

func decodeExcel(payload []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrNoDataRows
	}

	// Subsequent sheets are ignored.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return buildTable(rows)
}

func buildTable(records [][]string) (Table, error) {
	var headers []string
	var dataRows [][]string

	for _, row := range records {
		if isBlank(row) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(row))
			for i, cell := range row {
				headers[i] = strings.TrimSpace(cell)
			}
			continue
		}
		dataRows = append(dataRows, padRow(row, len(headers)))
	}

	if headers == nil || len(dataRows) == 0 {
		return Table{}, ErrNoDataRows
	}

	return Table{Headers: headers, Rows: dataRows}, nil
}

// padRow fits a row to the header width: missing cells become empty strings,
// cells beyond the header are dropped.
func padRow(row []string, length int) []string {
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
