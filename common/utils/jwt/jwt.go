// Package jwt issues and parses the access tokens accepted by the API's
// go-zero jwt middleware. Claims sit at the top level of the payload so the
// middleware copies them into the request context.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidConfig = errors.New("invalid auth config")
	ErrInvalidToken  = errors.New("invalid token")
)

type AuthConfig struct {
	Secret string
	Expire int64
}

type Claims struct {
	UserId int64 `json:"userId"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}

type TokenResult struct {
	Token    string
	ExpireAt int64
}

func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAdmin {
		return ErrInvalidRole
	}
	return nil
}

// GenerateToken signs an HS256 token valid for cfg.Expire seconds from now.
func GenerateToken(userId int64, role Role, cfg AuthConfig, now time.Time) (TokenResult, error) {
	if err := ValidateRole(role); err != nil {
		return TokenResult{}, err
	}
	if cfg.Secret == "" || cfg.Expire <= 0 {
		return TokenResult{}, ErrInvalidConfig
	}

	expireAt := now.Add(time.Duration(cfg.Expire) * time.Second)
	claims := Claims{
		UserId: userId,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expireAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return TokenResult{}, err
	}

	return TokenResult{
		Token:    signed,
		ExpireAt: claims.ExpiresAt.Unix(),
	}, nil
}

func ParseToken(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
