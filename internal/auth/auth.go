// Package auth protects the management API (subscriptions, consumer status)
// with bearer tokens. Webhook delivery endpoints are not covered here - their
// authentication is the HMAC signature itself.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Auth validates HS256 bearer tokens signed with a shared secret
type Auth struct {
	secret []byte
}

// New creates an Auth over the shared JWT secret
func New(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// ValidateToken parses and verifies a token string, returning its subject
func (a *Auth) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	subject, _ := claims.GetSubject()
	return subject, nil
}

// IssueToken mints a token for the given subject. Used by operators and
// tests; the service itself only verifies.
func (a *Auth) IssueToken(subject string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(a.secret)
}

// RequireAuth rejects requests without a valid bearer token
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			unauthorized(w)
			return
		}

		subject, err := a.ValidateToken(tokenString)
		if err != nil {
			unauthorized(w)
			return
		}

		// Expose the caller identity to handlers and the request log
		r.Header.Set("X-Subject", subject)

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
}
