package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gatekeeper/internal/delivery/http/validator"
	domainerrors "gatekeeper/internal/domain/errors"
	mockUsecase "gatekeeper/internal/mocks/usecase"
	"gatekeeper/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func newAuthHandlerContext(t *testing.T, body string) (*AuthHandler, echo.Context, *httptest.ResponseRecorder, *mockUsecase.MockAuthUsecase) {
	uc := mockUsecase.NewMockAuthUsecase(t)
	handler := NewAuthHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return handler, c, rec, uc
}

func TestAuthHandler_Login_Success(t *testing.T) {
	body := `{"email":"ada@example.com","password":"plaintext-password"}`
	handler, c, rec, uc := newAuthHandlerContext(t, body)

	output := &usecase.LoginOutput{
		AccessToken:  "signed-access-token",
		RefreshToken: "signed-refresh-token",
		ExpiresIn:    1756700000000,
	}
	uc.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{Email: "ada@example.com", Password: "plaintext-password"}).
		Return(output, nil)

	err := handler.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signed-access-token")
	assert.Contains(t, rec.Body.String(), "signed-refresh-token")
	assert.Contains(t, rec.Body.String(), "1756700000000")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	body := `{"email":"ada@example.com","password":"wrong-password"}`
	handler, c, _, uc := newAuthHandlerContext(t, body)

	uc.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed"))

	err := handler.Login(c)

	// The error propagates to the central HTTP error handler untouched.
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthHandler_Login_ValidationFailure(t *testing.T) {
	body := `{"email":"not-an-email","password":"plaintext-password"}`
	handler, c, _, _ := newAuthHandlerContext(t, body)

	err := handler.Login(c)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	body := `{"refreshToken":"presented-refresh-token"}`
	handler, c, rec, uc := newAuthHandlerContext(t, body)

	output := &usecase.LoginOutput{
		AccessToken:  "rotated-access-token",
		RefreshToken: "rotated-refresh-token",
		ExpiresIn:    1756700000000,
	}
	uc.EXPECT().
		Refresh(mock.Anything, &usecase.RefreshInput{RefreshToken: "presented-refresh-token"}).
		Return(output, nil)

	err := handler.Refresh(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rotated-refresh-token")
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	body := `{"refreshToken":"presented-refresh-token"}`
	handler, c, rec, uc := newAuthHandlerContext(t, body)

	uc.EXPECT().
		Logout(mock.Anything, &usecase.LogoutInput{RefreshToken: "presented-refresh-token"}).
		Return(nil)

	err := handler.Logout(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Successfully logged out")
}
