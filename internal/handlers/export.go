// export.go handles mapped-output download in multiple formats.
//
// Supported formats:
//   - csv  — RFC 4180 CSV, the primary output
//   - xlsx — Excel workbook
//   - json — Array of column→value objects
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/export"
)

// ExportExtraction downloads an extraction's mapped rows as a file.
// GET /api/v1/payroll/extractions/:id/export?format=csv|xlsx|json&template=X
//
// By default the rows resolved at upload time are exported. Passing
// ?template= re-resolves the stored employee records against a different
// template, so one upload can feed several output schemas.
func (h *Handler) ExportExtraction(c *gin.Context) {
	id := c.Param("id")
	format := export.Format(c.DefaultQuery("format", "csv"))

	// Validate format before touching the session store
	if !format.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: "Supported formats: csv, xlsx, json",
			Code:    http.StatusBadRequest,
		})
		return
	}

	ex, ok := h.Sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Extraction not found or expired",
			Code:    http.StatusNotFound,
		})
		return
	}

	// Only completed extractions have rows to export
	if ex.Status != models.StatusCompleted {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_ready",
			Message: "Extraction did not complete (status: " + string(ex.Status) + ")",
			Code:    http.StatusNotFound,
		})
		return
	}

	templateName := ex.Template
	columns := ex.Columns
	rows := ex.Rows

	// Re-resolve against a different template on request
	if want := c.Query("template"); want != "" && want != ex.Template {
		templateName = want
		var err error
		columns, rows, err = h.Templates.ResolveAll(want, ex.Employees)
		if err != nil {
			h.templateError(c, want, err)
			return
		}
	}

	data, err := export.Bytes(format, columns, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_error",
			Message: "Failed to generate export",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	// Build a clean filename from the original upload name
	base := sanitizeFilename(strings.TrimSuffix(ex.OriginalName, ".pdf"))
	if base == "" {
		base = "payroll"
	}
	filename := fmt.Sprintf("%s_%s.%s", base, templateName, format)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// sanitizeFilename removes characters that aren't safe for filenames.
// This is only for the Content-Disposition header, so replacing unsafe
// characters with hyphens and trimming is enough.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	// Collapse multiple hyphens/spaces
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)

	// Limit length
	if len(name) > 100 {
		name = name[:100]
	}

	return name
}
