package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AdminClaims is the claim shape of admin session tokens. The role claim is
// what the admin guard checks; user tokens never carry one.
type AdminClaims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// UserClaims is the claim shape of user session tokens.
type UserClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func IssueAdminToken(secret, adminID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		AdminID: adminID,
		Email:   email,
		Role:    "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   adminID,
		},
	}
	return sign(claims, secret)
}

func IssueUserToken(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}
	return sign(claims, secret)
}

func ParseAdminToken(tokenStr, secret string) (*AdminClaims, error) {
	token, err := parse(tokenStr, secret, &AdminClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || claims.AdminID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func ParseUserToken(tokenStr, secret string) (*UserClaims, error) {
	token, err := parse(tokenStr, secret, &UserClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func sign(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func parse(tokenStr, secret string, claims jwt.Claims) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return token, nil
}
