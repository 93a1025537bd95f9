package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

const createAccountsTable = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	vault_id TEXT NOT NULL UNIQUE,
	email_verified INTEGER NOT NULL DEFAULT 0,
	verification_token TEXT UNIQUE,
	verification_expiry DATETIME,
	reputation INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAccountsTable); err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO accounts (id, email, display_name, vault_id, email_verified, verification_token, verification_expiry, reputation, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Email,
		account.DisplayName,
		account.VaultID,
		account.EmailVerified,
		account.VerificationToken,
		account.VerificationExpiry,
		account.Reputation,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", translateErr(err))
	}
	return nil
}

const selectAccount = `
SELECT id, email, display_name, vault_id, email_verified, verification_token, verification_expiry, reputation, created_at
FROM accounts
`

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+`WHERE id = ?`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+`WHERE email = ?`, email))
}

func (r *AccountRepository) GetByVaultID(ctx context.Context, vaultID string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+`WHERE vault_id = ?`, vaultID))
}

func (r *AccountRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+`WHERE verification_token = ?`, token))
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE accounts
SET email_verified = 1, verification_token = NULL, verification_expiry = NULL
WHERE id = ? AND verification_token IS NOT NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark account verified: %w", err)
	}
	return requireRow(res)
}

func (r *AccountRepository) SetVerificationChallenge(ctx context.Context, id, token string, expiry time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE accounts
SET verification_token = ?, verification_expiry = ?
WHERE id = ? AND email_verified = 0`,
		token,
		expiry,
		id,
	)
	if err != nil {
		return fmt.Errorf("set verification challenge: %w", translateErr(err))
	}
	return requireRow(res)
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanAccount(row interface {
	Scan(dest ...any) error
}) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.DisplayName,
		&account.VaultID,
		&account.EmailVerified,
		&account.VerificationToken,
		&account.VerificationExpiry,
		&account.Reputation,
		&account.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &account, nil
}
