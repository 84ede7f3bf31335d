package utils

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
	"wedding/src/config"
	"wedding/src/types"

	"github.com/golang-jwt/jwt/v5"
)

func jwtKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// CheckAdminPassword compares in constant time. An unset password never
// matches.
func CheckAdminPassword(password string) bool {
	expected := config.Get().AdminPassword
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}

func GenerateAdminJWT(now time.Time) (string, time.Time, error) {
	c := config.Get()
	if c.JWTSecret == "" {
		return "", time.Time{}, errors.New("JWT_SECRET is not set")
	}
	expiresAt := now.Add(c.AdminSessionTTL)
	claims := types.Claims{
		Role: types.ADMIN_ROLE,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   types.ADMIN_ROLE,
			Issuer:    c.ServiceName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtKey())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAdminJWT validates signature, expiry and role.
func ParseAdminJWT(token string) (*types.Claims, error) {
	if len(jwtKey()) == 0 {
		return nil, types.ErrUnauthorized
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return jwtKey(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnauthorized, err.Error())
	}
	if !tkn.Valid || claims.Role != types.ADMIN_ROLE {
		return nil, types.ErrUnauthorized
	}
	return claims, nil
}
