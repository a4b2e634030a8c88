package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	mockRepo "gatekeeper/internal/mocks/repository"
	mockService "gatekeeper/internal/mocks/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestUserService(t *testing.T) (usecase.UserUsecase, *mockRepo.MockTransactionManager, *mockService.MockPasswordHasher) {
	txManager := mockRepo.NewMockTransactionManager(t)
	hasher := mockService.NewMockPasswordHasher(t)
	service := NewUserService(UserServiceParams{
		TxManager: txManager,
		Hasher:    hasher,
		Logger:    newDiscardLogger(),
	})

	return service, txManager, hasher
}

func TestUserService_Register_Success(t *testing.T) {
	service, txManager, hasher := newTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "plaintext-password",
	}

	hasher.EXPECT().Hash("plaintext-password").Return("hashed-password", nil)

	txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).
				RunAndReturn(func(ctx context.Context, user *entity.User) error {
					assert.Equal(t, "hashed-password", user.PasswordHash)
					assert.Equal(t, entity.RoleUser, user.Role)
					assert.Equal(t, entity.StatusNew, user.Status)
					user.ID = uuid.New()

					return nil
				})

			return fn(mockFactory)
		})

	output, err := service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	require.NotNil(t, output.User)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, "Ada", output.User.FirstName)
	assert.Equal(t, entity.RoleUser.String(), output.User.Role)
	assert.Equal(t, entity.StatusNew.String(), output.User.Status)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	service, txManager, hasher := newTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "taken@example.com",
		Password: "plaintext-password",
	}
	existing := &entity.User{ID: uuid.New(), Email: input.Email}

	hasher.EXPECT().Hash("plaintext-password").Return("hashed-password", nil)

	txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, input.Email).Return(existing, nil)

			return fn(mockFactory)
		})

	output, err := service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestUserService_Register_HashFailure(t *testing.T) {
	service, _, hasher := newTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "plaintext-password",
	}

	hasher.EXPECT().Hash("plaintext-password").Return("", errors.New("bcrypt exploded"))

	output, err := service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestUserService_Profile_Success(t *testing.T) {
	service, txManager, _ := newTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:           userID,
		Email:        "ada@example.com",
		PasswordHash: "hashed-password",
		Role:         entity.RoleUser,
		Status:       entity.StatusActive,
	}

	txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByID(ctx, userID).Return(user, nil)

			return fn(mockFactory)
		})

	view, err := service.Profile(ctx, userID)

	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, userID, view.ID)
	assert.Equal(t, user.Email, view.Email)
	assert.Equal(t, entity.StatusActive.String(), view.Status)
}

func TestUserService_Profile_NotFound(t *testing.T) {
	service, txManager, _ := newTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()

	txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)

			return fn(mockFactory)
		})

	view, err := service.Profile(ctx, userID)

	assert.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
