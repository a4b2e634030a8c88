package impl

import (
	"context"
	"testing"
	"time"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	mockRepo "gatekeeper/internal/mocks/repository"
	mockService "gatekeeper/internal/mocks/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authServiceFixture struct {
	service      usecase.AuthUsecase
	txManager    *mockRepo.MockTransactionManager
	hasher       *mockService.MockPasswordHasher
	tokenService *mockService.MockTokenService
}

func newTestAuthService(t *testing.T) *authServiceFixture {
	txManager := mockRepo.NewMockTransactionManager(t)
	hasher := mockService.NewMockPasswordHasher(t)
	tokenService := mockService.NewMockTokenService(t)
	service := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})

	return &authServiceFixture{
		service:      service,
		txManager:    txManager,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

// onExecute queues one transaction expectation whose callback receives the
// mocked factory; the transaction result is whatever the callback returns.
func (f *authServiceFixture) onExecute(t *testing.T, ctx context.Context, setup func(factory *mockRepo.MockRepositoryFactory)) {
	f.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			setup(mockFactory)

			return fn(mockFactory)
		}).Once()
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := newTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:           userID,
		Email:        "ada@example.com",
		PasswordHash: "stored-password-hash",
	}
	input := &usecase.LoginInput{Email: user.Email, Password: "plaintext-password"}

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	})

	fx.hasher.EXPECT().Check("plaintext-password", "stored-password-hash").Return(true)
	fx.tokenService.EXPECT().IssueAccessToken(user).Return("signed-access-token", nil)
	fx.tokenService.EXPECT().IssueRefreshToken(user).Return("signed-refresh-token", nil)
	fx.tokenService.EXPECT().AccessTokenTTL().Return(15 * time.Minute)
	fx.hasher.EXPECT().Hash(digestRefreshToken("signed-refresh-token")).Return("refresh-token-hash", nil)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)
		mockRefreshRepo.EXPECT().Append(ctx, mock.AnythingOfType("*entity.RefreshToken")).
			RunAndReturn(func(ctx context.Context, token *entity.RefreshToken) error {
				assert.Equal(t, userID, token.UserID)
				assert.Equal(t, "refresh-token-hash", token.TokenHash)

				return nil
			})
	})

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "signed-access-token", output.AccessToken)
	assert.Equal(t, "signed-refresh-token", output.RefreshToken)

	// ExpiresIn is the absolute access-token expiry in Unix milliseconds.
	wantExpiry := time.Now().Add(15 * time.Minute).UnixMilli()
	assert.InDelta(t, float64(wantExpiry), float64(output.ExpiresIn), 5000)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := newTestAuthService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{Email: "nobody@example.com", Password: "whatever"}

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	})

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := newTestAuthService(t)

	ctx := context.Background()
	user := &entity.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: "stored-password-hash",
	}
	input := &usecase.LoginInput{Email: user.Email, Password: "wrong-password"}

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	})

	fx.hasher.EXPECT().Check("wrong-password", "stored-password-hash").Return(false)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	// Indistinguishable from the unknown-email case.
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Refresh_Success(t *testing.T) {
	fx := newTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "ada@example.com"}
	matchedID := uuid.New()
	stored := []*entity.RefreshToken{
		{ID: uuid.New(), UserID: userID, TokenHash: "other-session-hash"},
		{ID: matchedID, UserID: userID, TokenHash: "matched-session-hash"},
	}
	input := &usecase.RefreshInput{RefreshToken: "presented-refresh-token"}

	fx.tokenService.EXPECT().ValidateRefreshToken("presented-refresh-token").
		Return(&service.Claims{UserID: userID, Email: user.Email, Type: service.TokenTypeRefresh}, nil)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(user, nil)
		mockRefreshRepo.EXPECT().ListByUserID(ctx, userID).Return(stored, nil)
	})

	// Sequential comparison over the token digest: the first entry misses,
	// the second matches.
	fx.hasher.EXPECT().Check(digestRefreshToken("presented-refresh-token"), "other-session-hash").Return(false)
	fx.hasher.EXPECT().Check(digestRefreshToken("presented-refresh-token"), "matched-session-hash").Return(true)

	fx.tokenService.EXPECT().IssueAccessToken(user).Return("new-access-token", nil)
	fx.tokenService.EXPECT().IssueRefreshToken(user).Return("new-refresh-token", nil)
	fx.tokenService.EXPECT().AccessTokenTTL().Return(15 * time.Minute)
	fx.hasher.EXPECT().Hash(digestRefreshToken("new-refresh-token")).Return("new-refresh-hash", nil)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

		// Rotation: the new hash goes in, the matched row goes out.
		mockRefreshRepo.EXPECT().Append(ctx, mock.AnythingOfType("*entity.RefreshToken")).
			RunAndReturn(func(ctx context.Context, token *entity.RefreshToken) error {
				assert.Equal(t, "new-refresh-hash", token.TokenHash)

				return nil
			})
		mockRefreshRepo.EXPECT().DeleteByID(ctx, matchedID).Return(nil)
	})

	output, err := fx.service.Refresh(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "new-access-token", output.AccessToken)
	assert.Equal(t, "new-refresh-token", output.RefreshToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	fx := newTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RefreshInput{RefreshToken: "garbage"}

	fx.tokenService.EXPECT().ValidateRefreshToken("garbage").
		Return(nil, errors.New("failed to parse token structure"))

	output, err := fx.service.Refresh(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_Refresh_NoStoredMatch(t *testing.T) {
	fx := newTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "ada@example.com"}
	stored := []*entity.RefreshToken{
		{ID: uuid.New(), UserID: userID, TokenHash: "hash-one"},
		{ID: uuid.New(), UserID: userID, TokenHash: "hash-two"},
	}
	input := &usecase.RefreshInput{RefreshToken: "valid-but-revoked-token"}

	fx.tokenService.EXPECT().ValidateRefreshToken("valid-but-revoked-token").
		Return(&service.Claims{UserID: userID, Type: service.TokenTypeRefresh}, nil)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(user, nil)
		mockRefreshRepo.EXPECT().ListByUserID(ctx, userID).Return(stored, nil)
	})

	fx.hasher.EXPECT().Check(digestRefreshToken("valid-but-revoked-token"), "hash-one").Return(false)
	fx.hasher.EXPECT().Check(digestRefreshToken("valid-but-revoked-token"), "hash-two").Return(false)

	output, err := fx.service.Refresh(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_Logout_InvalidTokenIsIdempotent(t *testing.T) {
	fx := newTestAuthService(t)

	ctx := context.Background()
	input := &usecase.LogoutInput{RefreshToken: "garbage"}

	fx.tokenService.EXPECT().ValidateRefreshToken("garbage").
		Return(nil, errors.New("failed to parse token structure"))

	// No session can be tied to an unverifiable token, so logout succeeds
	// without touching storage.
	err := fx.service.Logout(ctx, input)

	assert.NoError(t, err)
}

func TestAuthService_Logout_RemovesOnlyMatchingSessions(t *testing.T) {
	fx := newTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	matchedID := uuid.New()
	stored := []*entity.RefreshToken{
		{ID: uuid.New(), UserID: userID, TokenHash: "hash-one"},
		{ID: matchedID, UserID: userID, TokenHash: "hash-two"},
		{ID: uuid.New(), UserID: userID, TokenHash: "hash-three"},
	}
	input := &usecase.LogoutInput{RefreshToken: "session-two-token"}

	fx.tokenService.EXPECT().ValidateRefreshToken("session-two-token").
		Return(&service.Claims{UserID: userID, Type: service.TokenTypeRefresh}, nil)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)
		mockRefreshRepo.EXPECT().ListByUserID(ctx, userID).Return(stored, nil)
	})

	fx.hasher.EXPECT().Check(digestRefreshToken("session-two-token"), "hash-one").Return(false)
	fx.hasher.EXPECT().Check(digestRefreshToken("session-two-token"), "hash-two").Return(true)
	fx.hasher.EXPECT().Check(digestRefreshToken("session-two-token"), "hash-three").Return(false)

	fx.onExecute(t, ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)
		mockRefreshRepo.EXPECT().DeleteByID(ctx, matchedID).Return(nil)
	})

	err := fx.service.Logout(ctx, input)

	assert.NoError(t, err)
}
