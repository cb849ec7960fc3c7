package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/quizhub/quizhub-api/internal/domain"
)

const pgUniqueViolation = "23505"

const accountColumns = `id, username, email, password_hash, role, is_verified, reset_secret_hash, reset_secret_expiry, created_at, updated_at`

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, username, email, passwordHash string, role domain.Role) (*domain.Account, error) {
	const query = `
        INSERT INTO account (username, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + accountColumns + `
    `
	row := r.db.QueryRowxContext(ctx, query, username, email, passwordHash, role)
	var account domain.Account
	if err := row.StructScan(&account); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) UpsertGoogleAccount(ctx context.Context, username, email string) (*domain.Account, error) {
	// Accounts created through Google sign-in are verified at creation:
	// a valid ID token already proves control of the email address.
	const query = `
        INSERT INTO account (username, email, password_hash, role, is_verified)
        VALUES ($1, $2, '', 'user', TRUE)
        ON CONFLICT (email) DO UPDATE
        SET is_verified = TRUE,
            updated_at = NOW()
        RETURNING ` + accountColumns + `
    `
	row := r.db.QueryRowxContext(ctx, query, username, email)
	var account domain.Account
	if err := row.StructScan(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM account
        WHERE email = $1
    `
	return r.getOne(ctx, query, email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM account
        WHERE id = $1
    `
	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) FindByResetSecretHash(ctx context.Context, hash string, now time.Time) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM account
        WHERE reset_secret_hash = $1 AND reset_secret_expiry > $2
    `
	return r.getOne(ctx, query, hash, now)
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE account
        SET is_verified = TRUE,
            updated_at = NOW()
        WHERE id = $1
    `
	return r.exec(ctx, query, id)
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `
        UPDATE account
        SET password_hash = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	return r.exec(ctx, query, id, passwordHash)
}

func (r *AccountRepository) SetResetSecret(ctx context.Context, id uuid.UUID, hash string, expiry time.Time) error {
	// Overwrites any pending reset: only the newest secret is honored.
	const query = `
        UPDATE account
        SET reset_secret_hash = $2,
            reset_secret_expiry = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	return r.exec(ctx, query, id, hash, expiry)
}

func (r *AccountRepository) ClearResetSecret(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE account
        SET reset_secret_hash = NULL,
            reset_secret_expiry = NULL,
            updated_at = NOW()
        WHERE id = $1
    `
	return r.exec(ctx, query, id)
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM account
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	accounts := []domain.Account{}
	if err := r.db.SelectContext(ctx, &accounts, query, limit, offset); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
