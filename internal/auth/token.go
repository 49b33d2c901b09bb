package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msplaco/quote-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// adminSubject identifies the single admin account in session tokens
const adminSubject = "admin"

// Session holds the validated admin session extracted from a token
type Session struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer issues and validates HS256-signed admin session tokens.
// This replaces a server-side session flag: each request proves itself
// with a signed token, so no mutable global state is involved.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer from the auth configuration
func NewTokenIssuer(cfg *config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.SessionSecret),
		ttl:    cfg.SessionTTL(),
	}
}

// TTL returns the configured session lifetime
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a signed session token for the admin account
func (i *TokenIssuer) Issue() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses a session token and returns the session it carries
func (i *TokenIssuer) Validate(tokenString string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject != adminSubject {
		return nil, ErrInvalidToken
	}

	session := &Session{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
