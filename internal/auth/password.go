package auth

import (
	"crypto/subtle"

	"github.com/msplaco/quote-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// VerifyAdminPassword checks a login attempt against the configured admin
// credential. A bcrypt hash takes precedence; the plain-password fallback
// is compared in constant time.
func VerifyAdminPassword(cfg *config.AuthConfig, candidate string) bool {
	if cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(candidate)) == nil
	}
	if cfg.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cfg.AdminPassword), []byte(candidate)) == 1
}
