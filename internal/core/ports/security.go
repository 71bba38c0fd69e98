package ports

import "time"

// PasswordHasher derives and checks password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare never fails: a malformed hash is a mismatch.
	Compare(hash, plaintext string) bool
}

// TokenSigner issues and validates session tokens bound to an account id.
type TokenSigner interface {
	Sign(accountID string) (token string, expiresAt time.Time, err error)
	Parse(token string) (accountID string, err error)
	TTL() time.Duration
}
