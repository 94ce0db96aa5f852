// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// There is no ORM magic here — the database package persists the few things
// that belong in Postgres (API keys), and everything payroll-related lives
// in memory for the lifetime of a session.
package models

import "time"

// ExtractionStatus represents the processing state of a payroll extraction.
// Go Pattern: We use string constants instead of enums (Go doesn't have enums).
type ExtractionStatus string

const (
	StatusCompleted ExtractionStatus = "completed"
	StatusFailed    ExtractionStatus = "failed"
)

// ExtractedRecord maps canonical field names (see payroll.FieldNames) to the
// values pulled from one employee page of a payroll register. Values are
// kept as the strings that appeared in the PDF — no float round-tripping,
// so exports reproduce the source formatting exactly.
type ExtractedRecord map[string]string

// OutputRow is one row of the mapped output table: one value per template
// column, in template column order. Cells for unmapped columns or missing
// fields are empty strings, never absent.
type OutputRow []string

// Template is an output schema: an ordered list of column names read from
// the header row of a CSV file in the templates directory.
type Template struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Mapping connects template column names to extractor field names.
// Loaded from a JSON file whose stem matches the template's stem.
type Mapping map[string]string

// Extraction is the full result of processing one uploaded payroll PDF.
// It lives in the in-memory session store until its TTL expires — payroll
// data is never written to the database.
type Extraction struct {
	ID            string            `json:"id"`
	OriginalName  string            `json:"original_name"`
	Filename      string            `json:"filename"` // Stored reference name (uuid.pdf)
	PageCount     int               `json:"page_count"`
	EmployeeCount int               `json:"employee_count"`
	JobInfo       map[string]string `json:"job_info"`
	Employees     []ExtractedRecord `json:"employees"`
	Template      string            `json:"template"` // Template selected at upload time
	Columns       []string          `json:"columns"`
	Rows          []OutputRow       `json:"rows"`
	Status        ExtractionStatus  `json:"status"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	APIKeyID      *string           `json:"api_key_id,omitempty"` // Pointer = nullable
	CreatedAt     time.Time         `json:"created_at"`
	ExpiresAt     time.Time         `json:"expires_at"`
}

// APIKey represents an API key for authentication.
// Note: We store the HASH of the key, never the raw key itself.
type APIKey struct {
	ID         string     `json:"id" db:"id"`
	KeyHash    string     `json:"-" db:"key_hash"`            // "-" means never serialize to JSON
	KeyPrefix  string     `json:"key_prefix" db:"key_prefix"` // First 8 chars for identification
	Name       string     `json:"name" db:"name"`
	Active     bool       `json:"active" db:"active"`
	RateLimit  int        `json:"rate_limit" db:"rate_limit"` // Requests per hour
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"` // Pointer = nullable
}

// --- Request/Response DTOs (Data Transfer Objects) ---
// Go Pattern: Separate structs for API input/output vs internal state.
// This keeps the API contract clean and independent of how we store things.

// CreateAPIKeyRequest is the JSON body for POST /api/v1/keys.
type CreateAPIKeyRequest struct {
	Name      string `json:"name" binding:"required"`
	RateLimit int    `json:"rate_limit,omitempty"` // 0 = use default
}

// CreateAPIKeyResponse includes the raw key — shown only once at creation time.
type CreateAPIKeyResponse struct {
	APIKey
	RawKey string `json:"raw_key"` // The actual API key — save it! Only shown once.
}

// TemplateInfo describes one output template together with its field mapping,
// for GET /api/v1/templates. Columns with no mapping entry show up in
// Unmapped so a template author can spot typos.
type TemplateInfo struct {
	Name     string   `json:"name"`
	Columns  []string `json:"columns"`
	Mapping  Mapping  `json:"mapping"`
	Unmapped []string `json:"unmapped_columns,omitempty"`
}

// DownloadTokenResponse is returned when minting a short-lived export token.
// The token authorizes exactly one extraction, so it is safe to put in a
// browser link.
type DownloadTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ExportURL string    `json:"export_url"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Database  string `json:"database"`
	Templates int    `json:"templates"`
}
