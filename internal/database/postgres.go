package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ConnectPostgres собирает DSN из параметров конфига.
// Пароль экранируется, поэтому может содержать любые символы.
func ConnectPostgres(host, port, user, password, dbname string) (*sql.DB, error) {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbname,
		RawQuery: "sslmode=disable",
	}

	return OpenPostgres(dsn.String())
}

// OpenPostgres открывает пул соединений pgx и создает схему
func OpenPostgres(dsn string) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres %s unreachable: %w", connConfig.Host, err)
	}

	if err := Migrate(ctx, db, DialectPostgres); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// GetVersion возвращает строку версии сервера БД
func GetVersion(db *sql.DB, dialect Dialect) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	query := "SELECT version()"
	if dialect == DialectSQLite {
		query = "SELECT sqlite_version()"
	}

	var version string
	if err := db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return "", fmt.Errorf("failed to read %s version: %w", dialect, err)
	}
	return version, nil
}
