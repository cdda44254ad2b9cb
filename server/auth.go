package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminSubject is the subject claim of admin tokens.
const AdminSubject = "admin"

// DefaultTokenTTL is how long admin tokens last by default.
const DefaultTokenTTL = 30 * 24 * time.Hour

var errMissingToken = errors.New("missing bearer token")

// Authenticator issues and checks HS256 admin tokens.
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator returns an authenticator signing with secret.
func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{secret: secret, now: time.Now}
}

// GenerateToken returns a signed admin token valid for ttl.
func (a *Authenticator) GenerateToken(ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", fmt.Errorf("admin secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   AdminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken validates a token and returns its claims.
func (a *Authenticator) ParseToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject != AdminSubject {
		return nil, fmt.Errorf("unexpected subject %q", claims.Subject)
	}
	return claims, nil
}

// requireAdmin rejects requests without a valid bearer token. It is a
// pass-through when no admin secret is configured.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	if s.auth == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized", errMissingToken)
			return
		}
		if _, err := s.auth.ParseToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
