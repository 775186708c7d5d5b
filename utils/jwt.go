package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the rest of the server knows about a caller.
type Identity struct {
	Subject string
	Email   string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type JWTConfig struct {
	// Secret enables HS256 tokens.
	Secret []byte
	// PublicKeyPEM enables RS256 tokens issued by an external provider and
	// takes precedence over Secret.
	PublicKeyPEM []byte
	Issuer       string
	Audience     string
}

// JWTVerifier checks bearer tokens issued by the identity provider.
type JWTVerifier struct {
	key     any
	methods []string
	opts    []jwt.ParserOption
}

func NewJWTVerifier(cfg JWTConfig) (*JWTVerifier, error) {
	v := &JWTVerifier{}
	switch {
	case len(cfg.PublicKeyPEM) > 0:
		key, err := jwt.ParseRSAPublicKeyFromPEM(cfg.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("parse auth public key: %w", err)
		}
		v.key = key
		v.methods = []string{jwt.SigningMethodRS256.Alg()}
	case len(cfg.Secret) > 0:
		v.key = cfg.Secret
		v.methods = []string{jwt.SigningMethodHS256.Alg()}
	default:
		return nil, errors.New("no token verification key configured")
	}

	v.opts = append(v.opts, jwt.WithValidMethods(v.methods), jwt.WithExpirationRequired())
	if cfg.Issuer != "" {
		v.opts = append(v.opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		v.opts = append(v.opts, jwt.WithAudience(cfg.Audience))
	}
	return v, nil
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, v.opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Email == "" {
		return nil, errors.New("email claim missing")
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

// GenerateJWT signs an HS256 token for email. It is used by local tooling and
// tests; production tokens come from the identity provider.
func GenerateJWT(secret []byte, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	})
	return token.SignedString(secret)
}
