// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"gatekeeper/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrRefreshTokenNotFound is returned when a stored refresh token is not found.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository manages the stored refresh-token hashes that make up
// a user's sessions. Because entries are salted hashes, there is no lookup by
// token value; callers list a user's entries and compare candidates themselves.
type RefreshTokenRepository interface {
	// Append persists one new token hash for a user. Appending is the only
	// way the list grows; one successful login adds exactly one entry.
	Append(ctx context.Context, token *entity.RefreshToken) error

	// ListByUserID retrieves all stored tokens for a user, oldest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)

	// DeleteByID removes a single stored token, ending that session.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByUserID removes every stored token for a user.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
