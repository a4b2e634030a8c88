// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for salted one-way hashing of secrets.
// It covers both passwords and refresh-token digests: the same hash/compare
// pair is used wherever a secret must be stored without being recoverable.
// Implementations may cap the plaintext length (bcrypt stops at 72 bytes),
// so callers hashing long secrets digest them to a fixed length first.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext secret.
	Hash(plaintext string) (string, error)

	// Check compares a plaintext candidate with a stored hash.
	// A mismatch is an ordinary false, never an error.
	Check(candidate, hash string) bool
}
