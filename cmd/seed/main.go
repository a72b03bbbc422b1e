package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"pageforge/internal/config"
	builderSvc "pageforge/internal/domain/services/builder"
	"pageforge/internal/repository/postgres"
	serviceBuilder "pageforge/internal/service/builder"
	"pageforge/internal/slug"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed starter pages")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Seed one demo page per starter template
	if err := seedStarterPages(ctx, pool, tables, logger); err != nil {
		log.Fatalf("Failed to seed starter pages: %v", err)
	}

	log.Println("✅ Seeding complete")
}

func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create pages table
	createPages := `
		CREATE TABLE IF NOT EXISTS ` + tables.Pages + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title TEXT NOT NULL,
			slug VARCHAR(50) NOT NULL UNIQUE,
			nickname VARCHAR(255),
			elements JSONB NOT NULL DEFAULT '[]',
			settings JSONB NOT NULL DEFAULT '{}',
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			published_url VARCHAR(255),
			published_at TIMESTAMPTZ,
			page_views INTEGER NOT NULL DEFAULT 0,
			is_template BOOLEAN NOT NULL DEFAULT FALSE,
			template_name VARCHAR(255),
			template_description TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createPages); err != nil {
		return err
	}

	// Published lookups hit slug or the sticky published_url.
	createPublishedIdx := `
		CREATE INDEX IF NOT EXISTS idx_` + tables.Pages + `_published_url
		ON ` + tables.Pages + ` (published_url) WHERE is_published = TRUE
	`
	if _, err := pool.Exec(ctx, createPublishedIdx); err != nil {
		return err
	}

	// Create form submissions table
	createSubmissions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Submissions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			page_id UUID NOT NULL REFERENCES ` + tables.Pages + `(id) ON DELETE CASCADE,
			name VARCHAR(255),
			email VARCHAR(255),
			phone VARCHAR(50),
			data JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createSubmissions); err != nil {
		return err
	}

	createSubmissionsIdx := `
		CREATE INDEX IF NOT EXISTS idx_` + tables.Submissions + `_page_id
		ON ` + tables.Submissions + ` (page_id, created_at DESC)
	`
	if _, err := pool.Exec(ctx, createSubmissionsIdx); err != nil {
		return err
	}

	return nil
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Submissions,
		tables.Pages,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// seedStarterPages composes one page per built-in starter template so
// a fresh environment has something to click on.
func seedStarterPages(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) error {
	starters, err := serviceBuilder.NewStarterRegistry()
	if err != nil {
		return err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	pageRepo := postgres.NewPageRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)
	pageService := serviceBuilder.NewPageService(pageRepo, txManager, slug.NewGenerator(nil), "", logger)

	for _, starter := range starters.List() {
		title, elements, settings, err := starter.Compose()
		if err != nil {
			return err
		}

		page, err := pageService.CreatePage(ctx, &builderSvc.SavePageRequest{
			Title:    title,
			Nickname: "Demo: " + starter.Name,
			Elements: elements,
			Settings: &settings,
		})
		if err != nil {
			return err
		}
		log.Printf("  ✓ Seeded %q (%s) as %s", starter.Name, starter.Key, page.Slug)
	}

	return nil
}
