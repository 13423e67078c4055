// Package auth issues and verifies the HS256 bearer tokens that guard the
// controller's message and sync endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/songbook/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned for a well-formed token past its expiry.
var ErrTokenExpired = errors.New("token expired")

// Claims carries the registered claims plus the id of the user the token
// was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies tokenString and returns its user id. Every
// failure wraps common.ErrInvalidToken; expired tokens also match
// ErrTokenExpired.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, ErrTokenExpired)
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
