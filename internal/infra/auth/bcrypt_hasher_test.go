package auth

import (
	"strings"
	"testing"

	"gatekeeper/config"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(nil)

	password := "correct horse battery staple"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Correct candidate
	assert.True(t, hasher.Check(password, hash))

	// Wrong candidate
	assert.False(t, hasher.Check("wrong password", hash))

	// Empty candidate
	assert.False(t, hasher.Check("", hash))

	// Garbage hash
	assert.False(t, hasher.Check(password, "not_a_bcrypt_hash"))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewBcryptHasher(nil)

	password := "same input twice"
	first, err := hasher.Hash(password)
	assert.NoError(t, err)
	second, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Each hash embeds a fresh salt, so the strings never match even for
	// identical plaintexts. Both still verify against the original.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check(password, first))
	assert.True(t, hasher.Check(password, second))
}

func TestBcryptHasher_InputLengthLimit(t *testing.T) {
	hasher := NewBcryptHasher(nil)

	// bcrypt refuses plaintexts over 72 bytes, which is why signed tokens
	// are reduced to a fixed-length digest before hashing.
	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	// A sha256 hex digest (64 bytes) fits comfortably.
	hash, err := hasher.Hash(strings.Repeat("a", 64))
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(nil)

	hash, err := hasher.Hash("cost sample")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, defaultCost, cost)
}

func TestBcryptHasher_ConfiguredCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: customCost}}
	hasher := NewBcryptHasher(cfg)

	hash, err := hasher.Hash("cost sample")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)

	assert.True(t, hasher.Check("cost sample", hash))
}
