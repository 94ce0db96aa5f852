// Package export serializes mapped payroll tables for download.
//
// Supported formats:
//   - csv  — header row + one row per employee, standard CSV quoting
//   - xlsx — Excel workbook with a single "Payroll" sheet
//   - json — array of objects keyed by column name
//
// All three are pure functions over (columns, rows): same input, same
// bytes. Nothing here touches the filesystem or the network.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// Format identifies an export serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ContentType returns the MIME type to serve for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Valid reports whether f is a supported export format.
func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return true
	}
	return false
}

// CSV serializes the table as CSV bytes: one header row, then one row per
// OutputRow. encoding/csv applies standard quoting for cells containing
// delimiters, quotes, or newlines.
func CSV(columns []string, rows []models.OutputRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName is the single worksheet all XLSX exports use.
const sheetName = "Payroll"

// XLSX serializes the table as an Excel workbook.
func XLSX(columns []string, rows []models.OutputRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	// Drop excelize's default sheet so the workbook has just ours.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to place header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("failed to place cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON serializes the table as an indented array of column->value objects.
// Blank cells are included so every object has the full column set.
func JSON(columns []string, rows []models.OutputRow) ([]byte, error) {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(columns))
		for i, col := range columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			obj[col] = value
		}
		out = append(out, obj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON export: %w", err)
	}
	return data, nil
}

// Bytes dispatches to the serializer for the requested format.
func Bytes(format Format, columns []string, rows []models.OutputRow) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return XLSX(columns, rows)
	case FormatJSON:
		return JSON(columns, rows)
	case FormatCSV:
		return CSV(columns, rows)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
