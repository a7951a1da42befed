package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used in production. It trades
// brute-force resistance against login latency; tests pass a lower cost.
const DefaultHashCost = 10

// Hasher produces and verifies salted one-way digests. The same bcrypt
// primitive protects both passwords and refresh tokens: refresh tokens are
// high-entropy secrets and get the same treatment as passwords, never a
// reversible lookup.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost.
func NewHasher(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// HashPassword returns a salted bcrypt digest of the password.
func (h *Hasher) HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether the password matches the stored digest.
// bcrypt's comparison is constant-time.
func (h *Hasher) CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// HashToken returns a salted bcrypt digest of a refresh token. bcrypt caps
// input at 72 bytes and signed tokens always exceed that, so the token is
// reduced to its SHA-256 digest first.
func (h *Hasher) HashToken(token string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(tokenDigest(token), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(digest), nil
}

// CheckToken reports whether the token matches the stored digest.
func (h *Hasher) CheckToken(token, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), tokenDigest(token)) == nil
}

func tokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}
