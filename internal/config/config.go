package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string

	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json

	CORSOrigins string
	TablePrefix string

	// PublicBaseURL is the origin published short URLs are minted
	// against (e.g. https://pages.example.com). Falls back to the
	// request host when empty.
	PublicBaseURL string

	// AuthRequired gates the builder/admin API behind Supabase JWT
	// verification. Public render and submission routes stay open
	// either way.
	AuthRequired bool

	// Submission sink configuration
	NotifyWebhookURL      string
	SheetsSpreadsheetID   string
	SheetsSheetName       string
	GoogleCredentialsJSON string

	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := getEnv("SUPABASE_URL", "")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: supabaseURL + "/auth/v1/.well-known/jwks.json",
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     getTablePrefix(env),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", ""),
		AuthRequired:    getEnv("AUTH_REQUIRED", "false") == "true",

		NotifyWebhookURL:      getEnv("NOTIFY_WEBHOOK_URL", ""),
		SheetsSpreadsheetID:   getEnv("GOOGLE_SHEETS_ID", ""),
		SheetsSheetName:       getEnv("GOOGLE_SHEETS_NAME", "Submissions"),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		// Debug defaults to true outside production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
