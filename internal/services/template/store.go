// Package template implements the output template and field mapping stores.
//
// A template is a CSV file whose header row is the ordered list of output
// columns. A mapping is a JSON file (same filename stem) connecting each
// output column to a canonical extractor field name. Both directories are
// treated as static configuration: files are read on demand with plain
// read-only access, no caching and no locking.
package template

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// Sentinel errors for the configuration taxonomy. Handlers translate these
// into HTTP statuses with errors.Is.
var (
	// ErrConfigNotFound means the template or mapping file does not exist.
	ErrConfigNotFound = errors.New("config not found")
	// ErrConfigParse means a template header or mapping file is malformed.
	ErrConfigParse = errors.New("config parse error")
)

// mappingSchema validates mapping files at load time: a flat JSON object of
// string keys to string values, nothing else.
const mappingSchema = `{
	"type": "object",
	"additionalProperties": {"type": "string"}
}`

// Store reads templates and mappings from two configured directories.
type Store struct {
	TemplatesDir string
	MappingsDir  string

	schema *jsonschema.Schema
}

// NewStore creates a store for the given directories and compiles the
// mapping validation schema once.
func NewStore(templatesDir, mappingsDir string) (*Store, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("mapping.schema.json", strings.NewReader(mappingSchema)); err != nil {
		return nil, fmt.Errorf("failed to add mapping schema: %w", err)
	}
	schema, err := compiler.Compile("mapping.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile mapping schema: %w", err)
	}

	return &Store{
		TemplatesDir: templatesDir,
		MappingsDir:  mappingsDir,
		schema:       schema,
	}, nil
}

// List returns the names of all available templates, sorted.
// A template's name is its filename stem ("wisdot.csv" -> "wisdot").
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.TemplatesDir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".csv"))
	}
	sort.Strings(names)
	return names, nil
}

// validName reports whether a template name is a bare filename stem.
// Names carrying path separators or traversal elements would resolve to
// files outside the configured directories — the name comes straight from
// the request, so anything that isn't a plain stem is treated as not found.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && name == filepath.Base(name)
}

// LoadTemplate reads one template's column list from its CSV header row.
func (s *Store) LoadTemplate(name string) (*models.Template, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: template %q", ErrConfigNotFound, name)
	}

	f, err := os.Open(filepath.Join(s.TemplatesDir, name+".csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: template %q", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to open template %q: %w", name, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("%w: template %q has a malformed header: %v", ErrConfigParse, name, err)
	}

	columns := make([]string, 0, len(header))
	for _, col := range header {
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, fmt.Errorf("%w: template %q has an empty column name", ErrConfigParse, name)
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: template %q has no columns", ErrConfigParse, name)
	}

	return &models.Template{Name: name, Columns: columns}, nil
}

// LoadMapping reads and validates the mapping file for a template.
// The file is validated against a jsonschema before unmarshalling so a
// mapping with non-string values fails with a readable parse error instead
// of a type assertion surprise later.
func (s *Store) LoadMapping(name string) (models.Mapping, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: mapping %q", ErrConfigNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(s.MappingsDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: mapping %q", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read mapping %q: %w", name, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: mapping %q is not valid JSON: %v", ErrConfigParse, name, err)
	}
	if err := s.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: mapping %q: %v", ErrConfigParse, name, err)
	}

	var mapping models.Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("%w: mapping %q: %v", ErrConfigParse, name, err)
	}
	return mapping, nil
}

// EnsureDefaults creates the template/mapping directories and seeds the
// built-in "default" and "wisdot" template pairs when they are missing.
// Existing files are never overwritten — operators can edit the seeded
// files or drop in their own pairs.
func (s *Store) EnsureDefaults() error {
	for _, dir := range []string{s.TemplatesDir, s.MappingsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	for name, seed := range seedTemplates {
		if err := s.seedPair(name, seed); err != nil {
			return err
		}
	}
	return nil
}

// seedPair writes one template CSV and its mapping JSON if absent.
func (s *Store) seedPair(name string, seed seedTemplate) error {
	csvPath := filepath.Join(s.TemplatesDir, name+".csv")
	if _, err := os.Stat(csvPath); err != nil {
		// Only a missing file means "seed it" — any other stat failure
		// (permissions, a file where a directory should be) must surface.
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat template %q: %w", name, err)
		}
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("failed to create template %q: %w", name, err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(seed.columns); err != nil {
			f.Close()
			return fmt.Errorf("failed to write template %q: %w", name, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return fmt.Errorf("failed to write template %q: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write template %q: %w", name, err)
		}
	}

	jsonPath := filepath.Join(s.MappingsDir, name+".json")
	if _, err := os.Stat(jsonPath); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat mapping %q: %w", name, err)
		}
		data, err := json.MarshalIndent(seed.mapping, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode mapping %q: %w", name, err)
		}
		if err := os.WriteFile(jsonPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write mapping %q: %w", name, err)
		}
	}

	return nil
}

// seedTemplate is a built-in template/mapping pair.
type seedTemplate struct {
	columns []string
	mapping models.Mapping
}

// seedTemplates are the shipped output schemas: a minimal general-purpose
// one and the WisDOT certified payroll layout.
var seedTemplates = map[string]seedTemplate{
	"default": {
		columns: []string{
			"EmployeeName", "SSN", "Address", "City", "State", "PayRate",
			"RegularHours", "OvertimeHours", "GrossPay", "NetPay",
		},
		mapping: models.Mapping{
			"EmployeeName":  "name",
			"SSN":           "ssn",
			"Address":       "address",
			"City":          "city",
			"State":         "state",
			"PayRate":       "pay_rate",
			"RegularHours":  "regular_hours",
			"OvertimeHours": "overtime_hours",
			"GrossPay":      "gross_pay",
			"NetPay":        "net_pay",
		},
	},
	"wisdot": {
		columns: []string{
			"EmployeeName", "SSN", "Address", "City", "State", "MaritalStatus",
			"JobClass", "PayRate", "RegularHours", "OvertimeHours", "GrossPay",
			"NetPay", "TotalDeductions", "AMF494Rate", "AMF494Amount",
			"AnnuityRate", "AnnuityAmount", "HWRate", "HWAmount", "PensionRate",
			"PensionAmount", "DuesAmount", "JobName", "JobNumber", "WeekEnding",
		},
		mapping: models.Mapping{
			"EmployeeName":    "name",
			"SSN":             "ssn",
			"Address":         "address",
			"City":            "city",
			"State":           "state",
			"MaritalStatus":   "marital_status",
			"JobClass":        "job_class",
			"PayRate":         "pay_rate",
			"RegularHours":    "regular_hours",
			"OvertimeHours":   "overtime_hours",
			"GrossPay":        "gross_pay",
			"NetPay":          "net_pay",
			"TotalDeductions": "total_deductions",
			"AMF494Rate":      "amf_494_rate",
			"AMF494Amount":    "amf_494_amount",
			"AnnuityRate":     "annuity_rate",
			"AnnuityAmount":   "annuity_amount",
			"HWRate":          "h_and_w_rate",
			"HWAmount":        "h_and_w_amount",
			"PensionRate":     "pension_rate",
			"PensionAmount":   "pension_amount",
			"DuesAmount":      "dues_amount",
			"JobName":         "job_name",
			"JobNumber":       "job_number",
			"WeekEnding":      "week_ending",
		},
	},
}
