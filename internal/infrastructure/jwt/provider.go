package jwtinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/healthapp-api/internal/config"
	"github.com/healthapp-api/internal/domain"
)

// Claims holds the JWT payload fields. Tokens carry only the identity
// reference; nothing is persisted server-side, so validity is signature plus
// expiry alone.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a symmetric secret.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{secret: []byte(cfg.JWTSecret), expiry: cfg.JWTExpiry}, nil
}

func (p *Provider) Sign(identityID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: identityID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses and validates the token, returning the identity reference.
// Expired tokens map to TOKEN_EXPIRED, everything else to TOKEN_INVALID.
func (p *Provider) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.E(domain.ErrUnauthorized, domain.CodeTokenExpired, "token expired")
		}
		return "", domain.Ef(domain.ErrUnauthorized, domain.CodeTokenInvalid, "invalid token: %v", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", domain.E(domain.ErrUnauthorized, domain.CodeTokenInvalid, "invalid token claims")
	}
	return claims.UserID, nil
}

// Expiry reports the configured validity window.
func (p *Provider) Expiry() time.Duration { return p.expiry }
