package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kosench/expiring-link-bot/internal/database"
	apperrors "github.com/Kosench/expiring-link-bot/internal/errors"
	"github.com/Kosench/expiring-link-bot/internal/model"
)

type sqlQueries struct {
	insert    string
	selectOne string
	// lockOne читает запись внутри транзакции списания
	lockOne   string
	decrement string
	delete    string
}

var postgresQueries = sqlQueries{
	insert: `
	INSERT INTO links (token, destination, expires_at, clicks_remaining)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (token) DO NOTHING
	`,
	selectOne: `
	SELECT token, destination, expires_at, clicks_remaining
	FROM links
	WHERE token = $1
	`,
	lockOne: `
	SELECT destination, clicks_remaining
	FROM links
	WHERE token = $1
	FOR UPDATE
	`,
	decrement: `UPDATE links SET clicks_remaining = clicks_remaining - 1 WHERE token = $1`,
	delete:    `DELETE FROM links WHERE token = $1`,
}

// SQLite не поддерживает FOR UPDATE; пул из одного соединения
// сериализует транзакции сам.
var sqliteQueries = sqlQueries{
	insert: `
	INSERT OR IGNORE INTO links (token, destination, expires_at, clicks_remaining)
	VALUES (?, ?, ?, ?)
	`,
	selectOne: `
	SELECT token, destination, expires_at, clicks_remaining
	FROM links
	WHERE token = ?
	`,
	lockOne: `
	SELECT destination, clicks_remaining
	FROM links
	WHERE token = ?
	`,
	decrement: `UPDATE links SET clicks_remaining = clicks_remaining - 1 WHERE token = ?`,
	delete:    `DELETE FROM links WHERE token = ?`,
}

// SQLLinkRepository - хранилище ссылок поверх database/sql (Postgres или SQLite)
type SQLLinkRepository struct {
	db      *sql.DB
	dialect database.Dialect
	q       sqlQueries
}

func NewPostgresLinkRepository(db *sql.DB) *SQLLinkRepository {
	return &SQLLinkRepository{db: db, dialect: database.DialectPostgres, q: postgresQueries}
}

func NewSQLiteLinkRepository(db *sql.DB) *SQLLinkRepository {
	return &SQLLinkRepository{db: db, dialect: database.DialectSQLite, q: sqliteQueries}
}

// Create атомарно вставляет запись, коллизия токена не перезаписывает чужую ссылку
func (r *SQLLinkRepository) Create(ctx context.Context, link *model.Link) error {
	res, err := r.db.ExecContext(
		ctx,
		r.q.insert,
		link.Token,
		link.Destination,
		link.ExpiresAt.Unix(),
		link.ClicksRemaining,
	)
	if err != nil {
		return apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to create link", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to create link", err)
	}
	if affected == 0 {
		return apperrors.ErrTokenExists
	}

	return nil
}

func (r *SQLLinkRepository) GetByToken(ctx context.Context, token string) (*model.Link, error) {
	var (
		link      model.Link
		expiresAt int64
	)

	err := r.db.QueryRowContext(ctx, r.q.selectOne, token).Scan(
		&link.Token,
		&link.Destination,
		&expiresAt,
		&link.ClicksRemaining,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("link with token '%s': %w", token, apperrors.ErrLinkNotFound)
	}
	if err != nil {
		return nil, apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to get link", err)
	}

	link.ExpiresAt = time.Unix(expiresAt, 0)
	return &link, nil
}

// ConsumeOne выполняет проверку и списание в одной транзакции
func (r *SQLLinkRepository) ConsumeOne(ctx context.Context, token string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		destination string
		clicksLeft  int
	)
	err = tx.QueryRowContext(ctx, r.q.lockOne, token).Scan(&destination, &clicksLeft)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("link with token '%s': %w", token, apperrors.ErrLinkNotFound)
	}
	if err != nil {
		return "", apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to read link", err)
	}

	if clicksLeft <= 0 {
		if _, err := tx.ExecContext(ctx, r.q.delete, token); err != nil {
			return "", apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to delete exhausted link", err)
		}
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("failed to commit transaction: %w", err)
		}
		return "", apperrors.ErrLinkExhausted
	}

	if _, err := tx.ExecContext(ctx, r.q.decrement, token); err != nil {
		return "", apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to consume click", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return destination, nil
}

func (r *SQLLinkRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, r.q.delete, token); err != nil {
		return apperrors.NewBusinessError(apperrors.CodeDatabase, "failed to delete link", err)
	}
	return nil
}

func (r *SQLLinkRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Version возвращает версию движка, логируется при старте
func (r *SQLLinkRepository) Version() (string, error) {
	return database.GetVersion(r.db, r.dialect)
}
