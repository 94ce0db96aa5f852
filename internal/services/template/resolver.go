// resolver.go builds output rows from extracted records.
//
// Resolution is a two-step dictionary lookup per column: template column ->
// mapping source field -> extracted value. Both lookups tolerate misses and
// fall back to an empty string, so a partially extracted register still
// produces a usable (if gappy) table. Only missing or malformed
// configuration files are errors.
package template

import (
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// Resolve produces one output row for an extracted record using the named
// template and its mapping. The returned row always has exactly one value
// per template column.
func (s *Store) Resolve(templateName string, record models.ExtractedRecord) (models.OutputRow, error) {
	tmpl, err := s.LoadTemplate(templateName)
	if err != nil {
		return nil, err
	}
	mapping, err := s.LoadMapping(templateName)
	if err != nil {
		return nil, err
	}
	return resolveRow(tmpl.Columns, mapping, record), nil
}

// ResolveAll maps a batch of extracted records onto the named template,
// loading the template and mapping once. Returns the column order alongside
// the rows so callers can hand both straight to the exporter.
func (s *Store) ResolveAll(templateName string, records []models.ExtractedRecord) ([]string, []models.OutputRow, error) {
	tmpl, err := s.LoadTemplate(templateName)
	if err != nil {
		return nil, nil, err
	}
	mapping, err := s.LoadMapping(templateName)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]models.OutputRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, resolveRow(tmpl.Columns, mapping, record))
	}
	return tmpl.Columns, rows, nil
}

// resolveRow is the core lookup: for each column, mapping[column] names the
// source field and record[sourceField] supplies the value. A missing
// mapping entry or a missing field yields an empty cell, never an error.
func resolveRow(columns []string, mapping models.Mapping, record models.ExtractedRecord) models.OutputRow {
	row := make(models.OutputRow, len(columns))
	for i, column := range columns {
		sourceField, ok := mapping[column]
		if !ok {
			continue // Unmapped column -> blank cell
		}
		row[i] = record[sourceField] // Missing field -> zero value "" already
	}
	return row
}
