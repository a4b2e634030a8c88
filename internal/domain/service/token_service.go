package service

import (
	"time"

	"gatekeeper/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the issued JWTs.
// Subject carries the user ID; Email mirrors the user's login identifier.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Type   string
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating signed tokens.
// Issuance is pure: signing a token never touches storage. The auth service
// composes issuance with persistence explicitly.
type TokenService interface {
	// IssueAccessToken signs a short-lived access token for the user.
	IssueAccessToken(user *entity.User) (string, error)

	// IssueRefreshToken signs a longer-lived refresh token for the user,
	// using a secret and TTL distinct from the access token's.
	IssueRefreshToken(user *entity.User) (string, error)

	// ValidateAccessToken checks signature, expiry and token type.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks signature, expiry and token type.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// AccessTokenTTL returns the configured access-token lifetime.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured refresh-token lifetime.
	RefreshTokenTTL() time.Duration
}
