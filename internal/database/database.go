package database

import (
	"context"
	"fmt"

	"github.com/lipipala/lipipala/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// ConnString builds a postgres connection string from the CLI options.
func ConnString(options *models.Options) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		options.DBUser, options.DBPassword, options.DBHost, options.DBPort, options.DBName)
}

// InitDB connects to the database, makes sure the schema is current and
// returns a connection pool with pgvector types registered.
func InitDB(options *models.Options) (*pgxpool.Pool, error) {
	ctx := context.Background()
	connStr := ConnString(options)

	// Run migrations on a plain connection before the pool opens.
	if err := VerifySchema(ctx, connStr); err != nil {
		return nil, fmt.Errorf("unable to verify database schema: %w", err)
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	fmt.Printf("    Connected to postgres database: %s@%s:%d/%s\n",
		options.DBUser, options.DBHost, options.DBPort, options.DBName)
	return pool, nil
}

// VerifySchema enables the vector extension and migrates the schema to the
// most recent version. It is called by InitDB and by the test harness.
func VerifySchema(ctx context.Context, connStr string) error {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("unable to enable vector extension: %w", err)
	}

	migrator, err := NewMigrator(ctx, conn)
	if err != nil {
		return fmt.Errorf("unable to create migrator: %w", err)
	}
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("unable to migrate schema: %w", err)
	}

	return nil
}
