package service

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyvault/internal/mail"
	"studyvault/internal/repository/memory"
)

var vaultIDPattern = regexp.MustCompile(`^VLT-[0-9A-F]{4}-[0-9A-F]{4}$`)

// fakeMailer captures dispatched messages and can be told to fail.
type fakeMailer struct {
	messages []mail.Message
	err      error
}

func (m *fakeMailer) Deliver(ctx context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

// lastToken digs the verification token out of the most recent message's link.
func (m *fakeMailer) lastToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.messages)

	text := m.messages[len(m.messages)-1].Text
	idx := strings.Index(text, "verify?token=")
	require.GreaterOrEqual(t, idx, 0, "message must contain a verification link")

	rest := text[idx+len("verify?token="):]
	if end := strings.IndexAny(rest, " \n"); end >= 0 {
		rest = rest[:end]
	}
	token, err := url.QueryUnescape(rest)
	require.NoError(t, err)
	return token
}

func newTestAccountService(mailer mail.Mailer) *accountService {
	svc := NewAccountService(memory.NewAccountRepository(), mailer, "http://localhost:8080")
	return svc.(*accountService)
}

func TestSignupIssuesVaultIDAndDispatchesMail(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	vaultID, err := svc.Signup(ctx, "s@u.edu", "S U")
	require.NoError(t, err)
	assert.Regexp(t, vaultIDPattern, vaultID)

	require.Len(t, mailer.messages, 1)
	assert.Equal(t, "s@u.edu", mailer.messages[0].To)
	assert.Contains(t, mailer.messages[0].Text, vaultID)
	assert.NotEmpty(t, mailer.lastToken(t))
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccountService(&fakeMailer{})

	_, err := svc.Signup(ctx, "s@u.edu", "")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "s@u.edu", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Email comparison is case-insensitive.
	_, err = svc.Signup(ctx, "S@U.EDU", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSignupDeliveryFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccountService(&fakeMailer{err: errors.New("relay down")})

	_, err := svc.Signup(ctx, "s@u.edu", "")
	assert.ErrorIs(t, err, ErrDelivery)
}

func TestVerifyUnknownToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccountService(&fakeMailer{})

	_, err := svc.Verify(ctx, "never-issued")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTransitionsOnce(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	vaultID, err := svc.Signup(ctx, "s@u.edu", "")
	require.NoError(t, err)
	token := mailer.lastToken(t)

	got, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, vaultID, got)

	// The token is cleared; a repeat verify falls into the absent branch.
	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// And the account stays verified.
	account, err := svc.Login(ctx, vaultID)
	require.NoError(t, err)
	assert.True(t, account.EmailVerified)
}

func TestVerifyExpiredToken(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	_, err := svc.Signup(ctx, "s@u.edu", "")
	require.NoError(t, err)
	token := mailer.lastToken(t)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestResendInvalidatesOldToken(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	vaultID, err := svc.Signup(ctx, "s@u.edu", "")
	require.NoError(t, err)
	oldToken := mailer.lastToken(t)

	require.NoError(t, svc.ResendVerification(ctx, "s@u.edu"))
	newToken := mailer.lastToken(t)
	require.NotEqual(t, oldToken, newToken)

	// The old token is dead, not merely expired.
	_, err = svc.Verify(ctx, oldToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	got, err := svc.Verify(ctx, newToken)
	require.NoError(t, err)
	assert.Equal(t, vaultID, got)
}

func TestResendDoesNotLeakExistence(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	// Unknown email: silent success, nothing sent.
	require.NoError(t, svc.ResendVerification(ctx, "ghost@u.edu"))
	assert.Empty(t, mailer.messages)
}

func TestResendAfterVerificationIsNoop(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	_, err := svc.Signup(ctx, "s@u.edu", "")
	require.NoError(t, err)
	_, err = svc.Verify(ctx, mailer.lastToken(t))
	require.NoError(t, err)

	sent := len(mailer.messages)
	require.NoError(t, svc.ResendVerification(ctx, "s@u.edu"))
	assert.Len(t, mailer.messages, sent, "verified accounts get no new mail")
}

func TestLoginRequiresVerification(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	vaultID, err := svc.Signup(ctx, "s@u.edu", "")
	require.NoError(t, err)

	// Unverified account: the Vault ID is known but login is blocked.
	_, err = svc.Login(ctx, vaultID)
	assert.ErrorIs(t, err, ErrUnverifiedAccount)

	// Well-formed but never issued: invalid credential, not unverified.
	_, err = svc.Login(ctx, "VLT-0000-0000")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginReturnsSanitizedAccount(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	vaultID, err := svc.Signup(ctx, "s@u.edu", "S U")
	require.NoError(t, err)
	_, err = svc.Verify(ctx, mailer.lastToken(t))
	require.NoError(t, err)

	account, err := svc.Login(ctx, vaultID)
	require.NoError(t, err)
	assert.Equal(t, "s@u.edu", account.Email)
	assert.Equal(t, "S U", account.DisplayName)
	assert.Equal(t, 0, account.Reputation)
	assert.True(t, account.EmailVerified)
	assert.Nil(t, account.VerificationToken, "secret never leaves the service")
	assert.Nil(t, account.VerificationExpiry)

	// Login accepts uncanonical input and converges on the stored form.
	lower, err := svc.Login(ctx, strings.ToLower(vaultID))
	require.NoError(t, err)
	assert.Equal(t, account.ID, lower.ID)
}

func TestSignupVerifyLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := newTestAccountService(mailer)

	vaultID, err := svc.Signup(ctx, "a@b.com", "")
	require.NoError(t, err)

	_, err = svc.Verify(ctx, "wrong-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	got, err := svc.Verify(ctx, mailer.lastToken(t))
	require.NoError(t, err)
	assert.Equal(t, vaultID, got)

	account, err := svc.Login(ctx, vaultID)
	require.NoError(t, err)
	assert.True(t, account.EmailVerified)
}

func TestGetByIDMissing(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccountService(&fakeMailer{})

	_, err := svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
