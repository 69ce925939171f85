package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 12 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Source   string `json:"source"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

func GenerateToken(secret, username, role, source string) (string, error) {
	return sign(secret, username, role, source, tokenAccess, AccessTokenTTL)
}

func GenerateRefreshToken(secret, username, role, source string) (string, error) {
	return sign(secret, username, role, source, tokenRefresh, RefreshTokenTTL)
}

func sign(secret, username, role, source, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     role,
		Source:   source,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses an access token.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	return validate(secret, tokenStr, tokenAccess)
}

func ValidateRefreshToken(secret, tokenStr string) (*Claims, error) {
	return validate(secret, tokenStr, tokenRefresh)
}

func validate(secret, tokenStr, typ string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
