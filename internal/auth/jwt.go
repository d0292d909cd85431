// Package auth provides JWT token generation and validation, bcrypt password
// hashing, and the middleware gating private API routes.
//
// AUTHENTICATION FLOW:
//  1. POST /api/users or POST /api/auth verifies credentials and issues a JWT
//  2. The client sends that JWT back in the x-auth-token header
//  3. RequireAuth validates the token and puts the userID into the request
//     context for the handler
//
// The token is stateless — the signature plus expiry is everything the server
// needs, no session store and no DB lookup during verification.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the token lifetime used when no TTL is configured.
//
// 30,000,000 seconds is roughly 347 days. Deliberately long: there is no
// refresh-token flow, so expiry is effectively "log in again next year".
const DefaultTokenTTL = 30_000_000 * time.Second

const issuer = "songvault"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret used to sign and verify tokens. The same secret
// must be used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A zero or negative ttl falls back to DefaultTokenTTL.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// tokenUser is the nested identity object inside the token payload.
type tokenUser struct {
	ID string `json:"id"`
}

// claims is the JWT payload. The user's ID travels in a nested
// {"user":{"id":...}} object — that shape is the wire contract clients of
// this API already depend on, so it stays even though a bare "sub" claim
// would be the more common choice.
type claims struct {
	User tokenUser `json:"user"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT for the given userID using the
// configured lifetime.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key for signing
// and verifying.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		User: tokenUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
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

// Validate parses and verifies a JWT string and returns the userID it
// encodes.
//
// Checks performed: signature, expiry, issuer, and that the algorithm is
// HS256 (jwt.WithValidMethods guards against algorithm confusion attacks).
// Malformed, tampered, or expired tokens all fail.
func (s *TokenService) Validate(tokenStr string) (string, error) {
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
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.User.ID == "" {
		return "", fmt.Errorf("auth: token has no user id")
	}

	return c.User.ID, nil
}
