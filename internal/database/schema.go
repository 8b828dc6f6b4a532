package database

import (
	"context"
	"database/sql"
	"fmt"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS links (
	token            TEXT PRIMARY KEY,
	destination      TEXT NOT NULL,
	expires_at       BIGINT NOT NULL,
	clicks_remaining INTEGER NOT NULL CHECK (clicks_remaining >= 0)
)`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS links (
	token            TEXT PRIMARY KEY,
	destination      TEXT NOT NULL,
	expires_at       INTEGER NOT NULL,
	clicks_remaining INTEGER NOT NULL CHECK (clicks_remaining >= 0)
)`

// Migrate создает таблицу links, если ее еще нет
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	schema := postgresSchema
	if dialect == DialectSQLite {
		schema = sqliteSchema
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply %s schema: %w", dialect, err)
	}

	return nil
}
