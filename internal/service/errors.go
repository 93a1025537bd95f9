package service

import "errors"

// All of these are recoverable by the caller: the HTTP layer translates each
// to a distinct status and user-facing message. None is fatal to the process.
var (
	// ErrDuplicateEmail indicates a signup with an email that already has an account.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrInvalidToken indicates a verification token that was never issued or is already spent.
	ErrInvalidToken = errors.New("invalid verification token")
	// ErrExpiredToken indicates a known verification token past its 24-hour window.
	ErrExpiredToken = errors.New("verification token has expired")
	// ErrInvalidCredential indicates a login with an unknown Vault ID.
	ErrInvalidCredential = errors.New("invalid vault id")
	// ErrUnverifiedAccount blocks login until the email is verified.
	ErrUnverifiedAccount = errors.New("email not verified")
	// ErrNotAuthenticated indicates a request with no resolvable session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrDelivery indicates the messaging collaborator failed to accept a message.
	ErrDelivery = errors.New("email delivery failed")
	// ErrNotFound is the generic miss for non-account lookups.
	ErrNotFound = errors.New("not found")
)
