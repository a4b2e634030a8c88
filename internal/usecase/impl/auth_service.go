// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login orchestrates the user login process.
// Unknown email and wrong password both surface ErrInvalidCredentials with
// the same message, so responses don't reveal which emails are registered.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.loadUserByEmail(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Check password outside the transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	output, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return output, nil
}

// Refresh rotates a presented refresh token into a new token pair.
// The candidate is matched against the user's stored hashes one entry at a
// time; an entry that fails the comparison is simply not a match.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Info("Attempting to refresh tokens")

	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token validation failed")
	}

	var user *entity.User
	var stored []*entity.RefreshToken

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		user, findErr = repoFactory.UserRepo().FindByID(ctx, claims.UserID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return domainerrors.ErrRefreshTokenInvalid.WrapMessage("token subject no longer exists")
			}

			return errors.Wrap(findErr, "failed to find user")
		}

		stored, findErr = repoFactory.RefreshTokenRepo().ListByUserID(ctx, claims.UserID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to list refresh tokens")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to load session state for refresh", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load session state for refresh")
	}

	matched := srv.matchStoredToken(stored, input.RefreshToken)
	if matched == nil {
		srv.log(ctx).Warn("Refresh token not found in stored sessions", slog.Any("userID", claims.UserID))

		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token is not an active session")
	}

	output, err := srv.issueTokenPairRotating(ctx, user, matched)
	if err != nil {
		srv.log(ctx).Warn("Failed to rotate refresh token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Debug("Tokens refreshed successfully", slog.Any("userID", user.ID))

	return output, nil
}

// Logout removes exactly the stored sessions matching the presented refresh
// token and leaves every other session untouched.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		// An unverifiable token cannot be tied to a user, so there is no
		// session to remove. Logout stays idempotent.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))

		return nil
	}

	stored, err := srv.listStoredTokens(ctx, claims.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to list sessions for logout")
	}

	removed := 0
	digest := digestRefreshToken(input.RefreshToken)
	for _, token := range stored {
		if !srv.hasher.Check(digest, token.TokenHash) {
			continue
		}

		if err := srv.deleteStoredToken(ctx, token); err != nil {
			return errors.Wrap(err, "failed to delete session")
		}
		removed++
	}

	srv.log(ctx).Info("Successfully logged out", slog.Any("userID", claims.UserID), slog.Int("removedSessions", removed))

	return nil
}

// loadUserByEmail maps a missing user onto ErrInvalidCredentials so callers
// cannot distinguish it from a wrong password.
func (srv *authService) loadUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user *entity.User

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		user, findErr = repoFactory.UserRepo().FindByEmail(ctx, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
			}

			return errors.Wrap(findErr, "failed to find user by email")
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// issueTokenPair signs a fresh access/refresh pair and persists the hashed
// refresh token as a new session. Signing and hashing stay outside the
// transaction; only the append runs inside it.
func (srv *authService) issueTokenPair(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	return srv.issueTokenPairRotating(ctx, user, nil)
}

// issueTokenPairRotating issues a new pair and, when replaced is non-nil,
// removes that stored session in the same transaction as the append.
func (srv *authService) issueTokenPairRotating(ctx context.Context, user *entity.User, replaced *entity.RefreshToken) (*usecase.LoginOutput, error) {
	accessToken, err := srv.tokenService.IssueAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := srv.tokenService.IssueRefreshToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue refresh token")
	}

	tokenHash, err := srv.hasher.Hash(digestRefreshToken(refreshToken))
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash refresh token")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		if err := refreshRepo.Append(ctx, &entity.RefreshToken{
			UserID:    user.ID,
			TokenHash: tokenHash,
		}); err != nil {
			return errors.Wrap(err, "failed to store refresh token")
		}

		if replaced != nil {
			if err := refreshRepo.DeleteByID(ctx, replaced.ID); err != nil {
				return errors.Wrap(err, "failed to remove rotated refresh token")
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist session")
	}

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    time.Now().Add(srv.tokenService.AccessTokenTTL()).UnixMilli(),
	}, nil
}

// matchStoredToken compares the candidate against each stored hash in order
// and returns the first match, or nil when nothing matches.
func (srv *authService) matchStoredToken(stored []*entity.RefreshToken, candidate string) *entity.RefreshToken {
	digest := digestRefreshToken(candidate)
	for _, token := range stored {
		if srv.hasher.Check(digest, token.TokenHash) {
			return token
		}
	}

	return nil
}

// digestRefreshToken folds a signed token down to a fixed-length hex digest
// before it is bcrypt-hashed or compared. Signed tokens run a few hundred
// bytes, past bcrypt's 72-byte input limit, so the salted hash covers the
// digest rather than the raw token.
func digestRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

func (srv *authService) listStoredTokens(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	var stored []*entity.RefreshToken

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var listErr error
		stored, listErr = repoFactory.RefreshTokenRepo().ListByUserID(ctx, userID)

		return errors.Wrap(listErr, "failed to list refresh tokens")
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

func (srv *authService) deleteStoredToken(ctx context.Context, token *entity.RefreshToken) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.RefreshTokenRepo().DeleteByID(ctx, token.ID); err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				// Already gone; logout remains idempotent.
				return nil
			}

			return errors.Wrap(err, "failed to delete refresh token")
		}

		return nil
	})
}
