package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pageforge/internal/auth"
	"pageforge/internal/config"
	"pageforge/internal/handler"
	"pageforge/internal/middleware"
	"pageforge/internal/repository/postgres"
	serviceBuilder "pageforge/internal/service/builder"
	"pageforge/internal/service/submission"
	"pageforge/internal/service/widget"
	"pageforge/internal/slug"
	"pageforge/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// Logs go to stdout unless LOG_DIR asks for rotated files.
	logOut := io.Writer(os.Stdout)
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		logOut = logFile
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication. Without a
	// Supabase project the builder API runs open, which is fine for
	// local development.
	var jwtVerifier auth.JWTVerifier
	if cfg.SupabaseURL != "" {
		verifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
		jwtVerifier = verifier
	} else if cfg.AuthRequired {
		log.Fatal("AUTH_REQUIRED is set but SUPABASE_URL is not configured")
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	pageRepo := postgres.NewPageRepository(repoConfig)
	submissionRepo := postgres.NewSubmissionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Submission sinks are optional; nil sinks are skipped.
	var sheets submission.SheetAppender
	if cfg.SheetsSpreadsheetID != "" {
		sheets = submission.NewGoogleSheetAppender(cfg.SheetsSpreadsheetID, cfg.SheetsSheetName, cfg.GoogleCredentialsJSON)
		logger.Info("spreadsheet export enabled", "sheet", cfg.SheetsSheetName)
	}
	var notifier submission.Notifier
	if cfg.NotifyWebhookURL != "" {
		notifier = submission.NewWebhookNotifier(cfg.NotifyWebhookURL, nil)
		logger.Info("submission webhook enabled")
	}

	// Create services
	pageService := serviceBuilder.NewPageService(pageRepo, txManager, slug.NewGenerator(nil), cfg.PublicBaseURL, logger)
	submissionService := submission.NewSubmissionService(submissionRepo, pageRepo, sheets, notifier, logger)

	starters, err := serviceBuilder.NewStarterRegistry()
	if err != nil {
		log.Fatalf("Failed to load starter templates: %v", err)
	}
	logger.Info("starter templates loaded", "count", len(starters.List()))

	// Live widget scheduler for the published surface
	scheduler := widget.NewScheduler(logger)

	uploader := storage.NewSupabaseUploader(cfg.SupabaseURL, cfg.SupabaseKey, nil, logger)

	// Create handlers
	pageHandler := handler.NewPageHandler(pageService, scheduler, logger)
	publicHandler := handler.NewPublicHandler(pageService, scheduler, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	uploadHandler := handler.NewUploadHandler(uploader, logger)
	templateHandler := handler.NewTemplateHandler(pageService, starters, logger)
	convertHandler := handler.NewConvertHandler(logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Page routes
	mux.HandleFunc("POST /api/pages", pageHandler.CreatePage)
	mux.HandleFunc("GET /api/pages", pageHandler.ListPages)
	mux.HandleFunc("GET /api/pages/{id}", pageHandler.GetPage)
	mux.HandleFunc("PUT /api/pages/{id}", pageHandler.UpdatePage)
	mux.HandleFunc("PATCH /api/pages/{id}/nickname", pageHandler.UpdateNickname)
	mux.HandleFunc("DELETE /api/pages/{id}", pageHandler.DeletePage)

	// Publish routes
	mux.HandleFunc("POST /api/pages/{id}/publish", pageHandler.PublishPage)
	mux.HandleFunc("DELETE /api/pages/{id}/publish", pageHandler.UnpublishPage)

	// Public routes (no auth)
	mux.HandleFunc("GET /api/pages/slug/{slug}", publicHandler.GetBySlug)
	mux.HandleFunc("POST /api/pages/slug/{slug}/view", publicHandler.RecordView)
	mux.HandleFunc("GET /r/{slug}", publicHandler.RenderPage)

	// Submission routes (POST is public, listing is not)
	mux.HandleFunc("POST /api/submissions", submissionHandler.CreateSubmission)
	mux.HandleFunc("GET /api/submissions", submissionHandler.ListSubmissions)

	// Upload route
	mux.HandleFunc("POST /api/upload", uploadHandler.UploadImage)

	// Template routes
	mux.HandleFunc("GET /api/templates", templateHandler.ListTemplates)
	mux.HandleFunc("POST /api/pages/templates", templateHandler.SaveTemplate)
	mux.HandleFunc("POST /api/templates/{key}/pages", templateHandler.CreateFromStarter)

	// Conversion route
	mux.HandleFunc("POST /api/convert/figma", convertHandler.ConvertFigmaCSS)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → RateLimit → Routes
	httpHandler = middleware.SubmissionRateLimit(config.SubmissionRatePerMinute)(httpHandler)
	httpHandler = middleware.Auth(jwtVerifier, cfg.AuthRequired)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Stop widget tickers and wait for in-flight submission sinks so
	// rows already accepted still reach the spreadsheet and webhook.
	scheduler.Close()
	if flusher, ok := submissionService.(interface{ Flush() }); ok {
		flusher.Flush()
	}

	logger.Info("shutdown complete")
}
