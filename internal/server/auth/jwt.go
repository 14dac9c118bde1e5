// Package auth mints and verifies the bearer tokens clients present to the
// document server.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is who a token speaks for. FamilyID may be empty.
type Identity struct {
	UserID   string
	FamilyID string
}

// Claims carries the standard claims plus the caller's identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	FamilyID string `json:"fid,omitempty"`
}

func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	if id.UserID == "" {
		return "", fmt.Errorf("%w: empty user id", common.ErrorValidation)
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   id.UserID,
		FamilyID: id.FamilyID,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns its identity. Expired tokens
// yield common.ErrTokenExpired; every other failure wraps
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, common.ErrTokenExpired
	case err != nil:
		return Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	case !token.Valid || claims.UserID == "":
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, FamilyID: claims.FamilyID}, nil
}
