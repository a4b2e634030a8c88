package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gatekeeper/internal/delivery/http/middleware"
	domainerrors "gatekeeper/internal/domain/errors"
	mockUsecase "gatekeeper/internal/mocks/usecase"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserHandler(t *testing.T) (*UserHandler, *mockUsecase.MockUserUsecase) {
	uc := mockUsecase.NewMockUserUsecase(t)

	return NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil))), uc
}

func TestUserHandler_Register_Success(t *testing.T) {
	handler, uc := newUserHandler(t)

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"plaintext-password"}`
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	view := &usecase.UserView{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      "USER",
		Status:    "NEW",
		CreatedAt: time.Now(),
	}
	uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(&usecase.RegisterOutput{User: view}, nil)

	err := handler.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")
	// The public projection never carries password material.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandler_Register_ShortPassword(t *testing.T) {
	handler, _ := newUserHandler(t)

	body := `{"email":"ada@example.com","password":"short"}`
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Register(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestUserHandler_GetProfile_Success(t *testing.T) {
	handler, uc := newUserHandler(t)

	userID := uuid.New()
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyUserID, userID)

	view := &usecase.UserView{
		ID:     userID,
		Email:  "ada@example.com",
		Role:   "USER",
		Status: "ACTIVE",
	}
	uc.EXPECT().Profile(mock.Anything, userID).Return(view, nil)

	err := handler.GetProfile(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
}

func TestUserHandler_GetProfile_MissingUserID(t *testing.T) {
	handler, _ := newUserHandler(t)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetProfile(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := HealthCheck(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
