// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity record of the system.
// PasswordHash always holds a bcrypt hash; the plaintext password is never
// stored. Hashing is performed explicitly by the services before any
// persistence call, not by the record itself.
// Stored refresh-token sessions are separate RefreshToken records owned by
// the user, managed through the RefreshTokenRepository.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	FirstName    string    // Optional given name.
	LastName     string    // Optional family name.
	Email        string    // Unique login identifier.
	PasswordHash string    // bcrypt hash of the user's password.
	Role         Role      // The user's role. Stored only; nothing enforces it.
	Status       Status    // Account lifecycle status.

	CreatedAt time.Time
	UpdatedAt time.Time
}
