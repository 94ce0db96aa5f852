// extract.go handles payroll PDF upload and extraction endpoints.
//
// POST /api/v1/payroll/extract — Upload a payroll register PDF
// GET  /api/v1/payroll/extractions — List recent extractions
// GET  /api/v1/payroll/extractions/:id — Get one extraction result
//
// Processing is synchronous: a payroll register is a handful of pages, and
// extraction plus template resolution completes in well under a second, so
// the client gets the mapped rows in the upload response.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/middleware"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/payroll"
	pdfservice "github.com/Shimizu-Technology/payroll-extractor-api/internal/services/pdf"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/template"
)

// maxPDFSize is the max upload size for PDF files (50MB).
const maxPDFSize = 50 << 20 // 50MB

// ExtractPayroll handles payroll PDF upload, field extraction, and template
// resolution in one request.
// POST /api/v1/payroll/extract
//
// Accepts a multipart upload with field name "file" plus an optional
// "template" form field naming the output template (defaults to "default").
// Only .pdf files are accepted.
func (h *Handler) ExtractPayroll(c *gin.Context) {
	// Limit request body size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPDFSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "No PDF file provided. Upload a file with the field name 'file'. Max size: 50MB.",
			Code:    http.StatusBadRequest,
		})
		return
	}
	defer file.Close()

	// Validate file extension
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_file_type",
			Message: fmt.Sprintf("Unsupported file format '%s'. Only .pdf files are accepted.", ext),
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Read the entire file into memory — the PDF libraries need random access
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "read_error",
			Message: "Failed to read uploaded file",
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Cheap magic-bytes check before handing the data to a parser
	if !pdfservice.ValidatePDF(data) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_pdf",
			Message: "The uploaded file does not appear to be a valid PDF",
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Full structural validation — catches truncated and corrupt files that
	// happen to start with the right magic bytes
	if err := pdfservice.ValidateStructure(data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_pdf",
			Message: "PDF validation failed: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	templateName := c.DefaultPostForm("template", "default")

	// Get the API key from context (set by auth middleware)
	var apiKeyID *string
	if apiKey := middleware.GetAPIKey(c); apiKey != nil {
		apiKeyID = &apiKey.ID
	}

	// Extract per-page text
	result, err := pdfservice.Extract(data)
	if err != nil {
		log.Printf("PDF extraction failed for %s: %v", header.Filename, err)

		// Record the failure in the session store so the client can inspect it
		ex := &models.Extraction{
			ID:           uuid.New().String(),
			OriginalName: header.Filename,
			Filename:     uuid.New().String() + ".pdf",
			Template:     templateName,
			Status:       models.StatusFailed,
			ErrorMessage: err.Error(),
			APIKeyID:     apiKeyID,
			CreatedAt:    time.Now(),
		}
		h.Sessions.Put(ex)

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "extraction_failed",
			Message: "PDF text extraction failed: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	// Parse the payroll register from the page texts
	register := payroll.ParseRegister(result.Pages)

	if len(register.Employees) == 0 {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "no_employee_data",
			Message: "No employee records found. Is this a certified payroll register PDF?",
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	// Resolve the extracted records against the selected template
	columns, rows, err := h.Templates.ResolveAll(templateName, register.Employees)
	if err != nil {
		h.templateError(c, templateName, err)
		return
	}

	ex := &models.Extraction{
		ID:            uuid.New().String(),
		OriginalName:  header.Filename,
		Filename:      uuid.New().String() + ".pdf",
		PageCount:     result.PageCount,
		EmployeeCount: len(register.Employees),
		JobInfo:       register.JobInfo,
		Employees:     register.Employees,
		Template:      templateName,
		Columns:       columns,
		Rows:          rows,
		Status:        models.StatusCompleted,
		APIKeyID:      apiKeyID,
		CreatedAt:     time.Now(),
	}
	h.Sessions.Put(ex)

	c.JSON(http.StatusOK, ex)
}

// GetExtraction retrieves a single extraction by ID.
// GET /api/v1/payroll/extractions/:id
func (h *Handler) GetExtraction(c *gin.Context) {
	id := c.Param("id")

	ex, ok := h.Sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Extraction not found or expired",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, ex)
}

// ListExtractions returns recent extractions for the authenticated API key.
// GET /api/v1/payroll/extractions?limit=N
func (h *Handler) ListExtractions(c *gin.Context) {
	var apiKeyID *string
	if apiKey := middleware.GetAPIKey(c); apiKey != nil {
		apiKeyID = &apiKey.ID
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	extractions := h.Sessions.List(apiKeyID, limit)
	if extractions == nil {
		extractions = []*models.Extraction{}
	}

	c.JSON(http.StatusOK, extractions)
}

// templateError writes the right error response for a template store failure.
// A missing template or mapping file is the client's mistake (404); a file
// that exists but cannot be parsed means the template set is broken (422).
func (h *Handler) templateError(c *gin.Context, templateName string, err error) {
	switch {
	case errors.Is(err, template.ErrConfigNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "template_not_found",
			Message: fmt.Sprintf("No template or mapping named '%s'. List available templates at GET /api/v1/templates.", templateName),
			Code:    http.StatusNotFound,
		})
	case errors.Is(err, template.ErrConfigParse):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "template_parse_error",
			Message: fmt.Sprintf("Template '%s' is malformed: %v", templateName, err),
			Code:    http.StatusUnprocessableEntity,
		})
	default:
		log.Printf("Template resolution failed for %s: %v", templateName, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "resolution_failed",
			Message: "Template resolution failed",
			Code:    http.StatusInternalServerError,
		})
	}
}
