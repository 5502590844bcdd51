// Package auth mints and checks the mock session token.
//
// There is no identity provider behind this application — sign-in is a
// simulated round-trip whose credentials are validated for presence and
// then discarded. The token exists so a stored session carries a tamper-
// evident artifact: hydration rejects a session whose token no longer
// parses or whose subject doesn't match the stored user, and folds that
// into the corrupt-store reset path. The signing secret is a compiled-in
// constant; nothing about this is real authentication.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MockSecret signs every session token. A constant secret is the point:
// sessions must survive process restarts and there is no key to protect.
const MockSecret = "skillforge-mock-identity-provider-secret"

const issuer = "skillforge"

// SessionTTL bounds how long a stored session hydrates before the user is
// sent back through the sign-in flow.
const SessionTTL = 30 * 24 * time.Hour

// TokenService signs and verifies session tokens. The same secret is used
// for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: token secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the token payload. The "sub" claim holds the user ID.
type claims struct {
	jwt.RegisteredClaims
}

// Mint creates and signs a session token for the given userID.
// HS256: symmetric, fast, fine for a single-client application.
func (s *TokenService) Mint(userID string, now time.Time) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the userID from
// the "sub" claim. Expiry is checked against now, so callers drive the
// whole token lifecycle from one clock — Mint and Validate never consult
// wall time themselves. WithValidMethods pins the algorithm to HS256 so a
// token claiming a different method is rejected outright.
func (s *TokenService) Validate(tokenStr string, now time.Time) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}

	return c.Subject, nil
}
