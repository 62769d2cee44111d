package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity claims issued by the external auth system.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Config holds verification parameters for externally issued tokens.
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// Verifier validates identity tokens. Token issuance lives in the external
// auth system; this side only checks signatures and claims.
type Verifier struct {
	cfg Config
}

// NewVerifier builds a token verifier from config.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify parses and validates a token, returning the bound identity.
func (v *Verifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.cfg.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	if v.cfg.Issuer != "" && claims.Issuer != v.cfg.Issuer {
		return "", fmt.Errorf("invalid issuer")
	}
	if v.cfg.Audience != "" {
		validAudience := false
		for _, aud := range claims.Audience {
			if aud == v.cfg.Audience {
				validAudience = true
				break
			}
		}
		if !validAudience {
			return "", fmt.Errorf("invalid audience")
		}
	}

	identity := claims.UserID
	if identity == "" {
		identity = claims.Subject
	}
	if identity == "" {
		return "", fmt.Errorf("token carries no identity")
	}

	return identity, nil
}

// Sign issues a token for the given identity. Only tests and the internal
// notify route use this; clients get tokens from the external auth system.
func Sign(cfg Config, identity string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}
