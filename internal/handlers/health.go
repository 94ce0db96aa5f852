// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status)
// - Middleware data (c.Get/c.Set)
//
// We group related handlers into a struct (Handler) that holds shared
// dependencies, injected explicitly — no globals, no service locators.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/database"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/session"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/template"
)

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	DB               *database.DB
	Templates        *template.Store
	Sessions         *session.Store
	AdminAPIKey      string
	JWTSecret        string
	DefaultRateLimit int
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(db *database.DB, templates *template.Store, sessions *session.Store, adminAPIKey, jwtSecret string, defaultRateLimit int) *Handler {
	return &Handler{
		DB:               db,
		Templates:        templates,
		Sessions:         sessions,
		AdminAPIKey:      adminAPIKey,
		JWTSecret:        jwtSecret,
		DefaultRateLimit: defaultRateLimit,
	}
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	// Check database connectivity
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	// Count available output templates
	templateCount := 0
	if names, err := h.Templates.List(); err == nil {
		templateCount = len(names)
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Version:   "1.0.0",
		Database:  dbStatus,
		Templates: templateCount,
	})
}
