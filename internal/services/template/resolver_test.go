package template

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// writePair writes a template/mapping pair directly into the store dirs.
func writePair(t *testing.T, s *Store, name, csvHeader, mappingJSON string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(s.TemplatesDir, name+".csv"), []byte(csvHeader), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.MappingsDir, name+".json"), []byte(mappingJSON), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveExample(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureDefaults(); err != nil {
		t.Fatal(err)
	}
	writePair(t, s, "mini", "Name,Gross\n", `{"Name": "name", "Gross": "gross_pay"}`)

	row, err := s.Resolve("mini", models.ExtractedRecord{
		"name":      "Jane Doe",
		"gross_pay": "1200.00",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := models.OutputRow{"Jane Doe", "1200.00"}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("Resolve() = %v, want %v", row, want)
	}
}

func TestResolveEmptyRecordIsAllBlank(t *testing.T) {
	// resolve(T, {}) returns a row of len(columns(T)), all blank — for
	// every shipped template.
	s := newTestStore(t)
	if err := s.EnsureDefaults(); err != nil {
		t.Fatal(err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			tmpl, err := s.LoadTemplate(name)
			if err != nil {
				t.Fatal(err)
			}
			row, err := s.Resolve(name, models.ExtractedRecord{})
			if err != nil {
				t.Fatalf("Resolve(%q, {}): %v", name, err)
			}
			if len(row) != len(tmpl.Columns) {
				t.Fatalf("row length = %d, want %d", len(row), len(tmpl.Columns))
			}
			for i, cell := range row {
				if cell != "" {
					t.Errorf("row[%d] = %q, want empty", i, cell)
				}
			}
		})
	}
}

func TestResolveMissingFieldYieldsBlankCell(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureDefaults(); err != nil {
		t.Fatal(err)
	}
	writePair(t, s, "gaps", "Name,Gross,Net\n",
		`{"Name": "name", "Gross": "gross_pay", "Net": "net_pay"}`)

	// net_pay is absent from the record — that cell is blank, no error.
	row, err := s.Resolve("gaps", models.ExtractedRecord{
		"name":      "Jane Doe",
		"gross_pay": "1200.00",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := models.OutputRow{"Jane Doe", "1200.00", ""}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("Resolve() = %v, want %v", row, want)
	}
}

func TestResolveUnmappedColumnYieldsBlankCell(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureDefaults(); err != nil {
		t.Fatal(err)
	}
	// "Notes" has no mapping entry at all.
	writePair(t, s, "partial", "Name,Notes\n", `{"Name": "name"}`)

	row, err := s.Resolve("partial", models.ExtractedRecord{"name": "Jane Doe", "notes": "ignored"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := models.OutputRow{"Jane Doe", ""}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("Resolve() = %v, want %v", row, want)
	}
}

func TestResolveMappedFieldsResolveExactly(t *testing.T) {
	// Every column present in both mapping and record resolves to
	// record[mapping[column]] exactly.
	s := newTestStore(t)
	if err := s.EnsureDefaults(); err != nil {
		t.Fatal(err)
	}

	record := models.ExtractedRecord{
		"name":           "JOHN A SMITH",
		"ssn":            "***-**-1234",
		"gross_pay":      "2362.50",
		"regular_hours":  "40.00",
		"overtime_hours": "4.50",
	}

	tmpl, err := s.LoadTemplate("default")
	if err != nil {
		t.Fatal(err)
	}
	mapping, err := s.LoadMapping("default")
	if err != nil {
		t.Fatal(err)
	}
	row, err := s.Resolve("default", record)
	if err != nil {
		t.Fatal(err)
	}

	for i, col := range tmpl.Columns {
		field := mapping[col]
		if want, ok := record[field]; ok && row[i] != want {
			t.Errorf("column %q = %q, want %q", col, row[i], want)
		}
	}
}

func TestResolveAll(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureDefaults(); err != nil {
		t.Fatal(err)
	}
	writePair(t, s, "mini", "Name,Gross\n", `{"Name": "name", "Gross": "gross_pay"}`)

	records := []models.ExtractedRecord{
		{"name": "Jane Doe", "gross_pay": "1200.00"},
		{"name": "John Roe"},
	}
	columns, rows, err := s.ResolveAll("mini", records)
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}

	if !reflect.DeepEqual(columns, []string{"Name", "Gross"}) {
		t.Errorf("columns = %v", columns)
	}
	wantRows := []models.OutputRow{
		{"Jane Doe", "1200.00"},
		{"John Roe", ""},
	}
	if !reflect.DeepEqual(rows, wantRows) {
		t.Errorf("rows = %v, want %v", rows, wantRows)
	}
}
