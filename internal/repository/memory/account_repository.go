// Package memory provides process-local implementations of the repository
// interfaces for environments without a database. Data lives for the lifetime
// of the process; the same unique constraints the sqlite store enforces are
// checked here under a single mutex per repository.
package memory

import (
	"context"
	"sync"
	"time"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func NewAccountRepository() repository.AccountRepository {
	return &AccountRepository{accounts: make(map[string]*domain.Account)}
}

func (r *AccountRepository) Init(ctx context.Context) error { return nil }

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == account.Email || a.VaultID == account.VaultID {
			return repository.ErrDuplicate
		}
		if account.VerificationToken != nil && a.VerificationToken != nil &&
			*a.VerificationToken == *account.VerificationToken {
			return repository.ErrDuplicate
		}
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	stored := cloneAccount(account)
	r.accounts[stored.ID] = stored
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAccount(account), nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Email == email })
}

func (r *AccountRepository) GetByVaultID(ctx context.Context, vaultID string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.VaultID == vaultID })
}

func (r *AccountRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool {
		return a.VerificationToken != nil && *a.VerificationToken == token
	})
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok || account.VerificationToken == nil {
		return repository.ErrNotFound
	}
	account.EmailVerified = true
	account.VerificationToken = nil
	account.VerificationExpiry = nil
	return nil
}

func (r *AccountRepository) SetVerificationChallenge(ctx context.Context, id, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok || account.EmailVerified {
		return repository.ErrNotFound
	}
	for otherID, other := range r.accounts {
		if otherID != id && other.VerificationToken != nil && *other.VerificationToken == token {
			return repository.ErrDuplicate
		}
	}
	account.VerificationToken = &token
	account.VerificationExpiry = &expiry
	return nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.accounts)), nil
}

func (r *AccountRepository) find(match func(*domain.Account) bool) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if match(account) {
			return cloneAccount(account), nil
		}
	}
	return nil, repository.ErrNotFound
}

// cloneAccount keeps callers from mutating stored state through aliases.
func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	if a.VerificationToken != nil {
		token := *a.VerificationToken
		clone.VerificationToken = &token
	}
	if a.VerificationExpiry != nil {
		expiry := *a.VerificationExpiry
		clone.VerificationExpiry = &expiry
	}
	return &clone
}
