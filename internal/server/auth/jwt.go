// Package auth mints and verifies the signed bearer tokens returned by the
// MFA login flow. Tokens are stateless: there is no server-side session or
// revocation list, a token stays valid until its expiry.
package auth

import (
	"errors"
	"time"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity claims carried by a bearer token in addition to the
// registered issued-at/expires-at set.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

// GenerateToken signs a new HS256 token for the given identity.
func GenerateToken(username, userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Username: username,
		UserID:   userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the decoded claims.
// Malformed or badly signed tokens yield common.ErrInvalidToken; structurally
// valid but expired ones yield common.ErrTokenExpired. Only HS256 is accepted,
// so a token re-signed with "none" or an asymmetric method is rejected.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
