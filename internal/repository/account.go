package repository

import (
	"context"
	"time"

	"studyvault/internal/domain"
)

// AccountRepository defines persistence operations for Account records.
//
// Accounts are permanent once created: there is no delete. Mutation happens
// through named, intention-revealing operations instead of an open-ended
// field merge so that the verification fields can only change together.
type AccountRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByVaultID(ctx context.Context, vaultID string) (*domain.Account, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.Account, error)

	// MarkVerified flips emailVerified to true and clears the verification
	// token and expiry in a single update. The transition is monotonic.
	// Returns ErrNotFound when the account does not exist or has no
	// outstanding challenge, so concurrent verifies have exactly one winner.
	MarkVerified(ctx context.Context, id string) error

	// SetVerificationChallenge replaces the verification token and expiry
	// together, invalidating any previously issued token. Returns ErrNotFound
	// when the account does not exist or is already verified, so a reissue
	// racing a concurrent verify loses cleanly and cannot re-attach a token.
	SetVerificationChallenge(ctx context.Context, id, token string, expiry time.Time) error

	Count(ctx context.Context) (int64, error)
}
