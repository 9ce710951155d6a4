package controller

import (
	"net/http"
	"testing"

	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Register_Success(t *testing.T) {
	env := setupControllerTest(t)

	userID, token := env.signUp(t, "Buyer@Example.com")

	assert.NotEmpty(t, userID)
	assert.NotEmpty(t, token)
	assert.True(t, env.sessions.Current(userID).User.Authenticated)
}

func TestAuthController_Register_Errors(t *testing.T) {
	env := setupControllerTest(t)
	env.signUp(t, "taken@example.com")

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantCode   string
	}{
		{"invalid email", map[string]string{"email": "nope", "password": "password123"}, http.StatusBadRequest, apperrors.ValidationInvalidInput},
		{"missing password", map[string]string{"email": "a@example.com"}, http.StatusBadRequest, apperrors.ValidationInvalidInput},
		{"weak password", map[string]string{"email": "a@example.com", "password": "123"}, http.StatusBadRequest, apperrors.AuthWeakPassword},
		{"duplicate email", map[string]string{"email": "TAKEN@example.com", "password": "password123"}, http.StatusConflict, apperrors.AuthEmailAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/auth/register", tt.body, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp apperrors.ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	env := setupControllerTest(t)
	env.signUp(t, "buyer@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp authResponse
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEqual(t, resp.Tokens.AccessToken, resp.Tokens.RefreshToken)

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var errResp apperrors.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, apperrors.AuthInvalidCredentials, errResp.Error)
}

func TestAuthController_GetMe(t *testing.T) {
	env := setupControllerTest(t)
	userID, token := env.signUp(t, "buyer@example.com")

	w := env.do(t, http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User struct {
			Authenticated bool   `json:"authenticated"`
			ID            string `json:"id"`
			Email         string `json:"email"`
		} `json:"user"`
	}
	decode(t, w, &resp)
	assert.True(t, resp.User.Authenticated)
	assert.Equal(t, userID, resp.User.ID)
	assert.Equal(t, "buyer@example.com", resp.User.Email)

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_Logout_RevokesToken(t *testing.T) {
	env := setupControllerTest(t)
	userID, token := env.signUp(t, "buyer@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.sessions.Current(userID).User.Authenticated)

	w = env.do(t, http.MethodGet, "/api/v1/cart", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp apperrors.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, apperrors.AuthTokenRevoked, resp.Error)
}

func TestAuthController_AdminLogin(t *testing.T) {
	env := setupControllerTest(t)

	token := env.adminToken(t)
	assert.NotEmpty(t, token)

	w := env.do(t, http.MethodPost, "/api/v1/admin/login", map[string]string{
		"email": testAdminEmail, "password": "guess",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A regular account cannot use the back-office login.
	env.signUp(t, "buyer@example.com")
	w = env.do(t, http.MethodPost, "/api/v1/admin/login", map[string]string{
		"email": "buyer@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
