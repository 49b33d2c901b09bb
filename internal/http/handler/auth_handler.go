package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/msplaco/quote-api/internal/auth"
	"github.com/msplaco/quote-api/internal/config"
	"github.com/msplaco/quote-api/internal/domain"
	"go.uber.org/zap"
)

// AuthHandler handles the admin login and logout flow
type AuthHandler struct {
	cfg    *config.AuthConfig
	issuer *auth.TokenIssuer
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(cfg *config.AuthConfig, issuer *auth.TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		issuer: issuer,
		logger: logger,
	}
}

// Login godoc
// @Summary Admin login
// @Description Verify the admin password and issue a session cookie
// @Tags Auth
// @Router /admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	password := h.extractPassword(r)

	if !auth.VerifyAdminPassword(h.cfg, password) {
		h.logger.Warn("admin login rejected",
			zap.String("remote_addr", r.RemoteAddr),
		)
		if isProgrammatic(r) {
			respondWithError(w, http.StatusUnauthorized, "Mot de passe incorrect.")
			return
		}
		http.Redirect(w, r, "/admin/login?error=1", http.StatusSeeOther)
		return
	}

	token, err := h.issuer.Issue()
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.issuer.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("admin logged in", zap.String("remote_addr", r.RemoteAddr))

	if isProgrammatic(r) {
		respondJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout godoc
// @Summary Admin logout
// @Description Clear the admin session cookie
// @Tags Auth
// @Router /admin/logout [get]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// extractPassword reads the password from a JSON body or a form post
func (h *AuthHandler) extractPassword(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			return req.Password
		}
		return ""
	}
	return r.PostFormValue("password")
}
