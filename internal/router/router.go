// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/config"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/database"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/handlers"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/middleware"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/session"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/template"
)

// Setup creates and configures the Gin router with all routes.
func Setup(db *database.DB, templates *template.Store, sessions *session.Store, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	h := handlers.NewHandler(db, templates, sessions, cfg.AdminAPIKey, cfg.JWTSecret, cfg.DefaultRateLimit)
	rateLimiter := middleware.NewRateLimiter()

	// --- Public Routes (no auth required) ---
	r.GET("/api/v1/health", h.HealthCheck)
	r.POST("/api/v1/keys", h.CreateAPIKey) // Admin-key guarded inside the handler

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Download Route (API key OR download token) ---
	// Registered outside the protected group so browsers can follow export
	// links with a ?token= query parameter instead of a header.
	download := r.Group("/api/v1")
	download.Use(middleware.DownloadAuth(db, cfg.JWTSecret))
	// API-key clients get the same per-key limit here as everywhere else.
	// Token requests carry no key in the context, so the limiter lets them
	// through — the token's 15-minute, single-extraction scope bounds those.
	download.Use(rateLimiter.RateLimit())
	{
		download.GET("/payroll/extractions/:id/export", h.ExportExtraction)
	}

	// --- Protected Routes (API key required) ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.APIKeyAuth(db))
	protected.Use(rateLimiter.RateLimit())
	{
		// Payroll extraction endpoints
		protected.POST("/payroll/extract", h.ExtractPayroll)
		protected.GET("/payroll/extractions", h.ListExtractions)
		protected.GET("/payroll/extractions/:id", h.GetExtraction)
		protected.POST("/payroll/extractions/:id/download-token", h.CreateDownloadToken)

		// Output template endpoints
		protected.GET("/templates", h.ListTemplates)
		protected.GET("/templates/:name", h.GetTemplate)
		protected.GET("/fields", h.ListFields)

		// API key management
		protected.GET("/keys", h.ListAPIKeys)
		protected.DELETE("/keys/:id", h.RevokeAPIKey)
	}

	return r
}
