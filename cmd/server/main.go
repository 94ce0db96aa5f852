// Package main is the entry point for the Payroll Extractor API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/config"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/database"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/router"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/session"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/services/template"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 Payroll Extractor API %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, gin_mode=%s, session_ttl=%s", cfg.Port, cfg.GinMode, cfg.SessionTTL)

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Step 2: Connect to Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Database connected")

	// Run migrations
	if err := db.RunMigrations("migrations"); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// Step 3: Create Services
	templates, err := template.NewStore(cfg.TemplatesDir, cfg.MappingsDir)
	if err != nil {
		log.Fatalf("❌ Failed to initialize template store: %v", err)
	}
	if err := templates.EnsureDefaults(); err != nil {
		log.Fatalf("❌ Failed to seed default templates: %v", err)
	}
	if names, err := templates.List(); err == nil {
		log.Printf("📦 %d output template(s) available: %v", len(names), names)
	}

	// Extraction results live in memory only, expiring after the session TTL
	sessions := session.NewStore(cfg.SessionTTL)
	log.Printf("✅ Session store initialized (TTL %s, no payroll data persisted)", cfg.SessionTTL)

	// Log admin API key status
	if cfg.AdminAPIKey != "" {
		log.Println("✅ Admin API key configured (API key creation protected)")
	} else {
		log.Println("⚠️  No admin API key set (API key creation is open — set ADMIN_API_KEY in production)")
	}

	// Step 4: Setup HTTP Router
	r := router.Setup(db, templates, sessions, cfg)

	// Step 5: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 6: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
