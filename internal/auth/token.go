// Package auth owns session tokens and password digests. Token validation is
// pure: it never touches the database, so verification status of the decoded
// identity is the caller's problem.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/moodloop/journal-server/internal/apperr"
)

// Identity is the claim set carried by a session token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token encoding exactly {id, email}.
func (t *TokenIssuer) Issue(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return signed, nil
}

// Validate checks the signature and expiry and returns the decoded identity.
func (t *TokenIssuer) Validate(tokenString string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperr.Auth("Token expired")
		}
		return Identity{}, apperr.Auth("Invalid token")
	}
	if !token.Valid {
		return Identity{}, apperr.Auth("Invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Email == "" {
		return Identity{}, apperr.Auth("Invalid token")
	}

	return Identity{UserID: userID, Email: claims.Email}, nil
}
