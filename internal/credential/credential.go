package credential

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// VaultIDPrefix is the fixed prefix of every issued Vault ID.
const VaultIDPrefix = "VLT"

// verificationTTL is how long a verification token stays usable.
const verificationTTL = 24 * time.Hour

// GenerateVaultID returns a fresh Vault ID of the form VLT-XXXX-XXXX where
// each group is two random bytes rendered as uppercase hex. Uniqueness is
// probabilistic; callers must rely on the store's unique constraint and
// regenerate on rejection.
func GenerateVaultID() (string, error) {
	var raw [4]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return fmt.Sprintf("%s-%02X%02X-%02X%02X", VaultIDPrefix, raw[0], raw[1], raw[2], raw[3]), nil
}

// GenerateVerificationToken returns a 256-bit opaque token encoded as
// lowercase hex, safe to embed in a URL query parameter.
func GenerateVerificationToken() (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return fmt.Sprintf("%x", raw), nil
}

// VerificationExpiry returns the wall-clock instant at which a token issued
// now stops being accepted.
func VerificationExpiry(now time.Time) time.Time {
	return now.Add(verificationTTL)
}

// TokenExpired reports whether a verification challenge is no longer usable.
// A missing expiry counts as already expired, never as "no expiry enforced".
func TokenExpired(expiry *time.Time, now time.Time) bool {
	if expiry == nil {
		return true
	}
	return now.After(*expiry)
}

// NormalizeVaultID converges user input on the canonical VLT-XXXX-XXXX form
// before it is compared or stored: trims whitespace and uppercases.
func NormalizeVaultID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
