package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidToken is returned for unsigned, tampered or expired cookies
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims carry the server-side session id in the jti claim
type SessionClaims struct {
	jwt.RegisteredClaims // Standard JWT claims
}

// GenerateSessionToken signs a session id for the session cookie
func GenerateSessionToken(sessionID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,                        // Session id
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Cookie dies with the idle window
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseSessionToken validates a cookie value and returns the session id
func ParseSessionToken(tokenStr, secret string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
