package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one stored session credential belonging to a user.
// TokenHash is a salted bcrypt hash over the digest of the opaque signed
// token string, so the raw token cannot be recovered from storage. Matching
// a candidate token against stored entries therefore requires a per-entry
// hash comparison rather than an indexed lookup.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this stored token.
	UserID    uuid.UUID // The user this session belongs to.
	TokenHash string    // salted hash of the issued refresh token's digest.
	CreatedAt time.Time // When this session was created.
}
