// tokens.go handles download token minting.
//
// Export links get opened in browsers, and browsers can't attach an
// X-API-Key header to a plain link. So a client trades its API key for a
// short-lived token scoped to one extraction, and appends it to the export
// URL as ?token=.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/middleware"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// CreateDownloadToken mints a short-lived token for downloading one
// extraction's export.
// POST /api/v1/payroll/extractions/:id/download-token
func (h *Handler) CreateDownloadToken(c *gin.Context) {
	id := c.Param("id")

	// Only mint tokens for extractions that exist and completed
	ex, ok := h.Sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Extraction not found or expired",
			Code:    http.StatusNotFound,
		})
		return
	}
	if ex.Status != models.StatusCompleted {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_ready",
			Message: "Extraction did not complete (status: " + string(ex.Status) + ")",
			Code:    http.StatusNotFound,
		})
		return
	}

	token, expiresAt, err := middleware.GenerateDownloadToken(id, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "token_error",
			Message: "Failed to generate download token",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, models.DownloadTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		ExportURL: fmt.Sprintf("/api/v1/payroll/extractions/%s/export?token=%s", id, token),
	})
}
