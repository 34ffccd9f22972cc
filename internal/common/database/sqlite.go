package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"loan-intake/internal/common/config"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient wraps the SQL database connection to the embedded store.
type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLite opens (creating if needed) the single-file SQLite database.
func NewSQLite(cfg config.DatabaseConfig) (*SQLiteClient, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// churn at the expected human-submitted load.
	db.SetMaxOpenConns(1)

	return &SQLiteClient{DB: db}, nil
}

// Ping tests the database connection.
func (c *SQLiteClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection.
func (c *SQLiteClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Query executes a query that returns rows.
func (c *SQLiteClient) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.DB.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns at most one row.
func (c *SQLiteClient) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.DB.QueryRowContext(ctx, query, args...)
}

// Exec executes a query that doesn't return rows.
func (c *SQLiteClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}

// GetDB returns the underlying *sql.DB for compatibility.
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.DB
}
