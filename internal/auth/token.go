// Package auth issues and verifies the bearer tokens handed out at login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"projectshelf/internal/domain"
)

// Claims is the token payload. Clients decode userId and userName directly,
// so the json names are fixed.
type Claims struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// TokenManager signs tokens with a process wide HMAC secret. A zero ttl
// issues tokens without an expiry claim.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("token ttl must not be negative, got %s", ttl)
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(userID, userName string) (string, error) {
	if userID == "" {
		return "", errors.New("user id cannot be empty")
	}

	now := m.now()
	claims := Claims{
		UserID:   userID,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature (and expiry, when present) and returns the claims.
// Every failure is reported as domain.ErrInvalidToken.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, domain.Wrap(domain.KindInvalidToken, "Invalid token", err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, domain.E(domain.KindInvalidToken, "Invalid token")
	}
	return claims, nil
}
