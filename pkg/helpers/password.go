package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for passwords and refresh tokens.
const PasswordCost = 10

// Hasher wraps bcrypt with a fixed cost. The zero value is not usable; use NewHasher.
type Hasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = PasswordCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes a password with bcrypt. bcrypt reads at most 72 bytes and
// rejects longer input, so every secret is digested with SHA-256 first; any
// length is accepted and every byte counts.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(digest(plain)), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether plain matches a hash produced by Hash.
func (h *Hasher) Compare(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(digest(plain))) == nil
}

// CompareDummy spends the same bcrypt effort as Compare against a throwaway
// hash and always reports false. Used when there is no stored hash to check.
func (h *Hasher) CompareDummy(plain string) bool {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte(digest("dummy-password-for-timing")), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(digest(plain)))
	return false
}

// HashToken hashes a refresh token for storage at rest.
func (h *Hasher) HashToken(token string) (string, error) {
	return h.Hash(token)
}

// CompareToken reports whether token matches a hash produced by HashToken.
func (h *Hasher) CompareToken(hash string, token string) bool {
	return h.Compare(hash, token)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
