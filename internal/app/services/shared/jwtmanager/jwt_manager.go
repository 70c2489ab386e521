package jwtmanager

import (
	"fmt"
	"medibook-service/internal/app/config"

	"github.com/golang-jwt/jwt/v4"
)

// SessionClaims is the token payload issued by the external identity
// collaborator. This service only verifies the signature and trusts the
// subject and role embedded in it.
type SessionClaims struct {
	Role       string `json:"role"`
	ProviderID string `json:"provider_id,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
}

func NewJWTManager(internalConfig *config.InternalConfig) *JWTManager {
	return &JWTManager{secret: []byte(internalConfig.JWT.Secret)}
}

func (m *JWTManager) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := new(SessionClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}
