package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPINHasher(t *testing.T) {
	hasher := NewBcryptPINHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("1234")
	require.NoError(t, err)

	assert.NotEqual(t, "1234", hash)
	assert.True(t, hasher.Compare(hash, "1234"))
	assert.False(t, hasher.Compare(hash, "4321"))
	assert.False(t, hasher.Compare("", "1234"))
	assert.False(t, hasher.Compare("not-a-hash", "1234"))

	again, err := hasher.Hash("1234")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salted hashes differ")

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestNewBcryptPINHasher_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptPINHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptPINHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptPINHasher(12).cost)
}
