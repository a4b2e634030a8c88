// Package usecase contains the application-specific business rules.
package usecase

import "context"

// LoginInput defines the credentials required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginOutput returns the issued token pair after a successful login or
// refresh. ExpiresIn is the absolute expiry of the access token in Unix
// milliseconds.
type LoginOutput struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RefreshInput carries the refresh token presented for rotation.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutInput carries the refresh token whose session should end.
type LogoutInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthUsecase defines the interface for authentication operations.
type AuthUsecase interface {
	// Login validates credentials and issues an access/refresh token pair,
	// persisting the hashed refresh token as a new session.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Refresh rotates a valid refresh token into a new token pair.
	Refresh(ctx context.Context, input *RefreshInput) (*LoginOutput, error)

	// Logout removes the stored session matching the presented refresh token.
	Logout(ctx context.Context, input *LogoutInput) error
}
