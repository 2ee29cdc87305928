package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", hash)
	assert.True(t, h.Compare(hash, "password1"))
	assert.False(t, h.Compare(hash, "password2"))
	assert.False(t, h.Compare("not-a-hash", "password1"))
}

func TestHasher_SaltsEachHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewHasher(0)
	hash, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestHasher_TokenLongerThanBcryptLimit(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	// Two long tokens sharing the first 72 bytes must not match each other.
	prefix := strings.Repeat("a", 100)
	t1 := prefix + ".one"
	t2 := prefix + ".two"

	hash, err := h.HashToken(t1)
	require.NoError(t, err)
	assert.True(t, h.CompareToken(hash, t1))
	assert.False(t, h.CompareToken(hash, t2))
}

func TestHasher_CompareDummy(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.CompareDummy("anything"))
	assert.False(t, h.CompareDummy("dummy-password-for-timing"))
}

func TestHasher_PasswordLongerThanBcryptLimit(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	long := strings.Repeat("p", 80)

	hash, err := h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Compare(hash, long))
	// bytes past 72 still matter
	assert.False(t, h.Compare(hash, strings.Repeat("p", 72)))
	assert.False(t, h.Compare(hash, long+"x"))
	assert.False(t, h.CompareDummy(long))
}
