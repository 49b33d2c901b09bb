package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/msplaco/quote-api/internal/auth"
	"github.com/msplaco/quote-api/internal/config"
	"github.com/msplaco/quote-api/internal/domain"
	"github.com/msplaco/quote-api/internal/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAuthHandler(t *testing.T) (*handler.AuthHandler, *auth.TokenIssuer) {
	t.Helper()
	cfg := &config.AuthConfig{
		AdminPassword:     "hunter2",
		SessionSecret:     "test-session-secret-at-least-32-chars",
		SessionTTLMinutes: 60,
	}
	issuer := auth.NewTokenIssuer(cfg)
	return handler.NewAuthHandler(cfg, issuer, zap.NewNop()), issuer
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("json login issues a session cookie", func(t *testing.T) {
		h, issuer := setupAuthHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"hunter2"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp domain.SuccessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		cookie := sessionCookie(t, rec)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, 3600, cookie.MaxAge)

		session, err := issuer.Validate(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, "admin", session.Subject)
	})

	t.Run("form login redirects to the dashboard", func(t *testing.T) {
		h, _ := setupAuthHandler(t)

		form := url.Values{"password": {"hunter2"}}
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin", rec.Header().Get("Location"))
		assert.NotNil(t, sessionCookie(t, rec))
	})

	t.Run("wrong password over json yields 401 without a cookie", func(t *testing.T) {
		h, _ := setupAuthHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, "Mot de passe incorrect.", apiErr.Detail)
		assert.Nil(t, sessionCookie(t, rec))
	})

	t.Run("wrong password from a form redirects back with the error flag", func(t *testing.T) {
		h, _ := setupAuthHandler(t)

		form := url.Values{"password": {"wrong"}}
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/login?error=1", rec.Header().Get("Location"))
		assert.Nil(t, sessionCookie(t, rec))
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		h, _ := setupAuthHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()

		h.Login(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	h, _ := setupAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}
