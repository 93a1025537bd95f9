package domain

import "time"

// Account represents a registered student identified by a Vault ID.
//
// The Vault ID is the permanent, non-secret login handle; the verification
// token is a single-use secret that exists only while an email verification
// is outstanding. Token and expiry are always set and cleared together.
type Account struct {
	ID                 string
	Email              string
	DisplayName        string
	VaultID            string
	EmailVerified      bool
	VerificationToken  *string
	VerificationExpiry *time.Time
	Reputation         int
	CreatedAt          time.Time
}
