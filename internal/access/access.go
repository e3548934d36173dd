package access

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// ErrNotConfigured means the admin password was never set in the
// environment; this is a server configuration problem, not a failed login.
var ErrNotConfigured = errors.New("hasło administratora nie jest skonfigurowane")

// ErrInvalidPassword means the submitted password did not match.
var ErrInvalidPassword = errors.New("nieprawidłowe hasło")

// Gate is the single shared-secret check guarding the admin panel. One
// password for everything; remembering "authenticated" is the caller's job.
type Gate struct {
	secret string
}

// NewGate returns a gate comparing against the given secret.
func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Check compares the submitted password against the configured secret.
func (g *Gate) Check(password string) error {
	if g.secret == "" {
		return ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.secret)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// HashPassword returns the hex sha256 digest under which user credentials
// are stored.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
