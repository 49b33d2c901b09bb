package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/msplaco/quote-api/internal/domain"
	"go.uber.org/zap"
)

// SessionCookie is the name of the admin session cookie
const SessionCookie = "msplaco_session"

// Middleware guards admin-only routes
type Middleware struct {
	issuer *TokenIssuer
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(issuer *TokenIssuer, logger *zap.Logger) *Middleware {
	return &Middleware{issuer: issuer, logger: logger}
}

// RequireAdmin validates the session token on every request. API callers
// get a 401 JSON body; browser page requests are redirected to the login
// page like the original admin flow.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			m.reject(w, r, "missing session")
			return
		}

		session, err := m.issuer.Validate(token)
		if err != nil {
			m.logger.Warn("session validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			m.reject(w, r, "invalid session")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// extractToken reads the session cookie, falling back to a Bearer header
// for programmatic admin clients
func (m *Middleware) extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, detail string) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(domain.APIError{
			Type:   domain.ErrorTypeUnauthorized,
			Title:  http.StatusText(http.StatusUnauthorized),
			Status: http.StatusUnauthorized,
			Detail: detail,
		})
		return
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
