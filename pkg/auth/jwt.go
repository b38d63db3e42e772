package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RelayAudience = "lighthouse-relay"
	RelayScope    = "inquiry:notify"
)

type Claims struct {
	Service string `json:"svc"`
	Scope   string `json:"scope"`
	jwt.RegisteredClaims
}

// NewServiceToken signs a short-lived token the web service presents to the relay.
func NewServiceToken(service, scope, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Service: service,
		Scope:   scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  []string{RelayAudience},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func NewRelayToken(secret string, ttl time.Duration) (string, error) {
	return NewServiceToken("web", RelayScope, secret, ttl)
}

func Parse(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(RelayAudience),
	)
	if err != nil {
		return nil, err
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
