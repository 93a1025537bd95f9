package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"studyvault/internal/credential"
	"studyvault/internal/domain"
	"studyvault/internal/mail"
	"studyvault/internal/repository"
)

// vaultIDAttempts bounds the regenerate-on-collision loop. Two random bytes
// per group keep the keyspace small enough that collisions are possible, so
// the store's unique constraint is the authority and we retry on rejection.
const vaultIDAttempts = 5

// AccountService orchestrates the signup, verification and login flows.
type AccountService interface {
	Signup(ctx context.Context, email, displayName string) (string, error)
	Verify(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, vaultID string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

type accountService struct {
	accounts repository.AccountRepository
	mailer   mail.Mailer
	baseURL  string

	now func() time.Time
}

func NewAccountService(accounts repository.AccountRepository, mailer mail.Mailer, baseURL string) AccountService {
	return &accountService{
		accounts: accounts,
		mailer:   mailer,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

func (s *accountService) Signup(ctx context.Context, email, displayName string) (string, error) {
	email = normalizeEmail(email)
	displayName = strings.TrimSpace(displayName)

	if email == "" {
		return "", errors.New("email is required")
	}
	if !strings.Contains(email, "@") {
		return "", errors.New("email is not valid")
	}

	// Fast path check; the unique constraint below is what decides races.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return "", ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("look up email: %w", err)
	}

	account, err := s.createWithFreshVaultID(ctx, email, displayName)
	if err != nil {
		return "", err
	}

	if err := s.dispatchVerification(ctx, account); err != nil {
		return "", err
	}
	return account.VaultID, nil
}

// createWithFreshVaultID inserts the account, regenerating the Vault ID when
// the store rejects it as taken. A duplicate email rejection means a
// concurrent signup won and is not retried.
func (s *accountService) createWithFreshVaultID(ctx context.Context, email, displayName string) (*domain.Account, error) {
	for attempt := 0; attempt < vaultIDAttempts; attempt++ {
		vaultID, err := credential.GenerateVaultID()
		if err != nil {
			return nil, fmt.Errorf("generate vault id: %w", err)
		}
		token, err := credential.GenerateVerificationToken()
		if err != nil {
			return nil, fmt.Errorf("generate verification token: %w", err)
		}
		expiry := credential.VerificationExpiry(s.now())

		account := &domain.Account{
			ID:                 uuid.NewString(),
			Email:              email,
			DisplayName:        displayName,
			VaultID:            vaultID,
			EmailVerified:      false,
			VerificationToken:  &token,
			VerificationExpiry: &expiry,
			Reputation:         0,
			CreatedAt:          s.now().UTC(),
		}

		err = s.accounts.Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("create account: %w", err)
		}
		if _, lookupErr := s.accounts.GetByEmail(ctx, email); lookupErr == nil {
			return nil, ErrDuplicateEmail
		}
		// Vault ID (or token) collided; try again with fresh credentials.
	}
	return nil, fmt.Errorf("could not allocate a unique vault id after %d attempts", vaultIDAttempts)
}

func (s *accountService) Verify(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	account, err := s.accounts.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("look up verification token: %w", err)
	}

	if credential.TokenExpired(account.VerificationExpiry, s.now()) {
		return "", ErrExpiredToken
	}

	if err := s.accounts.MarkVerified(ctx, account.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A concurrent verify cleared the challenge first.
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("mark account verified: %w", err)
	}
	return account.VaultID, nil
}

// ResendVerification re-issues the challenge for a pending account. Unknown
// emails and already-verified accounts both succeed silently so the endpoint
// is not an oracle for account existence.
func (s *accountService) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up email: %w", err)
	}
	if account.EmailVerified {
		return nil
	}

	token, err := credential.GenerateVerificationToken()
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	expiry := credential.VerificationExpiry(s.now())

	if err := s.accounts.SetVerificationChallenge(ctx, account.ID, token, expiry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A concurrent verify completed first; nothing left to resend.
			return nil
		}
		return fmt.Errorf("replace verification challenge: %w", err)
	}

	account.VerificationToken = &token
	return s.dispatchVerification(ctx, account)
}

func (s *accountService) Login(ctx context.Context, vaultID string) (*domain.Account, error) {
	vaultID = credential.NormalizeVaultID(vaultID)
	if vaultID == "" {
		return nil, ErrInvalidCredential
	}

	account, err := s.accounts.GetByVaultID(ctx, vaultID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("look up vault id: %w", err)
	}
	if !account.EmailVerified {
		return nil, ErrUnverifiedAccount
	}
	return sanitizeAccount(account), nil
}

func (s *accountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeAccount(account), nil
}

func (s *accountService) dispatchVerification(ctx context.Context, account *domain.Account) error {
	verificationURL := fmt.Sprintf("%s/verify?token=%s",
		s.baseURL, url.QueryEscape(*account.VerificationToken))

	msg := mail.VerificationMessage(account.Email, verificationURL, account.VaultID)
	if err := s.mailer.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sanitizeAccount strips the verification secret before the account leaves
// the service layer.
func sanitizeAccount(account *domain.Account) *domain.Account {
	if account == nil {
		return nil
	}
	return &domain.Account{
		ID:            account.ID,
		Email:         account.Email,
		DisplayName:   account.DisplayName,
		VaultID:       account.VaultID,
		EmailVerified: account.EmailVerified,
		Reputation:    account.Reputation,
		CreatedAt:     account.CreatedAt,
	}
}
