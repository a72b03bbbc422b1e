package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pageforge/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Pages       string
	Submissions string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Pages:       fmt.Sprintf("%spages", prefix),
		Submissions: fmt.Sprintf("%sform_submissions", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool with automatic
// PgBouncer compatibility.
//
// Supabase's transaction pooler (port 6543) does not support prepared
// statements, which pgx uses by default (QueryExecModeCacheStatement).
// When the pooler port is detected and the user has not set an explicit
// mode in the connection string, the pool switches to
// QueryExecModeCacheDescribe: it uses the extended protocol (required
// for JSONB encoding of map values), caches statement descriptions
// rather than prepared statements, and stays PgBouncer compatible.
// Direct connections (port 5432) keep the default.
//
// The fmt.Sprintf table prefixes used throughout this package are safe
// with either mode: SQL strings are interpolated before being sent, so
// each environment gets its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction from the context when one is in
// flight, otherwise the pool, so repositories automatically participate
// in transactions.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
