// templates.go handles output template inspection endpoints.
//
// Templates are file-based (a CSV header file plus a JSON mapping file per
// name), so these endpoints are read-only views over the template store.
// Adding a template means dropping two files in the configured directories
// — no API, no migration.
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/payroll"
)

// ListTemplates returns every available output template with its columns
// and field mapping.
// GET /api/v1/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	names, err := h.Templates.List()
	if err != nil {
		log.Printf("Failed to list templates: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "template_error",
			Message: "Failed to list templates",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	infos := make([]models.TemplateInfo, 0, len(names))
	for _, name := range names {
		info, err := h.templateInfo(name)
		if err != nil {
			// A broken pair shouldn't hide the healthy templates — skip it
			log.Printf("Skipping unreadable template %s: %v", name, err)
			continue
		}
		infos = append(infos, *info)
	}

	c.JSON(http.StatusOK, infos)
}

// GetTemplate returns one template by name.
// GET /api/v1/templates/:name
func (h *Handler) GetTemplate(c *gin.Context) {
	name := c.Param("name")

	info, err := h.templateInfo(name)
	if err != nil {
		h.templateError(c, name, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// ListFields returns the canonical field names the extractor can produce.
// GET /api/v1/fields
//
// Template authors use this vocabulary as the right-hand side of their
// mapping files.
func (h *Handler) ListFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": payroll.FieldNames,
		"count":  len(payroll.FieldNames),
	})
}

// templateInfo assembles the full view of one template: columns, mapping,
// and any columns the mapping leaves unmapped (those export as blanks).
func (h *Handler) templateInfo(name string) (*models.TemplateInfo, error) {
	tmpl, err := h.Templates.LoadTemplate(name)
	if err != nil {
		return nil, err
	}
	mapping, err := h.Templates.LoadMapping(name)
	if err != nil {
		return nil, err
	}

	var unmapped []string
	for _, col := range tmpl.Columns {
		if _, ok := mapping[col]; !ok {
			unmapped = append(unmapped, col)
		}
	}

	return &models.TemplateInfo{
		Name:     tmpl.Name,
		Columns:  tmpl.Columns,
		Mapping:  mapping,
		Unmapped: unmapped,
	}, nil
}
