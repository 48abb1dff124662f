package utils

import (
	"errors"
	"time"

	"bookfair/models"

	"github.com/golang-jwt/jwt"
)

// SessionClaims identifies the actor behind a bearer token.
type SessionClaims struct {
	Role models.ActorRole `json:"role"`
	jwt.StandardClaims
}

// TokenManager signs and validates bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a signed JWT for the given actor.
func (m *TokenManager) GenerateToken(actor models.Actor) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: actor.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   actor.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseActor validates tokenString and extracts the actor it was issued for.
func (m *TokenManager) ParseActor(tokenString string) (models.Actor, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, models.NewError(models.CodeUnauthorized, "invalid token")
	}
	if claims.Subject == "" {
		return models.Actor{}, models.NewError(models.CodeUnauthorized, "token does not contain a valid 'sub' claim")
	}
	if claims.Role != models.RoleVendor && claims.Role != models.RoleStaff {
		return models.Actor{}, models.NewError(models.CodeUnauthorized, "token does not contain a valid role")
	}
	return models.Actor{ID: claims.Subject, Role: claims.Role}, nil
}
