package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer is stamped into every access token.
const TokenIssuer = "sokoni"

// Claims is what an access token carries about its user.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

type jwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the provided user.
func GenerateToken(secret string, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &jwtCustomClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns its claims.
func ParseToken(secret, tokenString string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(TokenIssuer))
	if err != nil {
		return Claims{}, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}
	return Claims{UserID: id, Email: claims.Email}, nil
}
