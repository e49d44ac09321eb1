package jwtinfra

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/healthapp-api/internal/config"
	"github.com/healthapp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour})
	require.NoError(t, err)
	return p
}

func TestNewProvider_MissingSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTExpiry: time.Hour})
	require.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := testProvider(t)

	token, err := p.Sign("identity-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identityID, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "identity-123", identityID)
}

func TestVerify_Expired(t *testing.T) {
	p := testProvider(t)
	p.expiry = -time.Minute

	token, err := p.Sign("identity-123")
	require.NoError(t, err)

	_, err = p.Verify(token)
	require.Error(t, err)
	assert.Equal(t, domain.CodeTokenExpired, domain.CodeOf(err))
}

func TestVerify_Garbage(t *testing.T) {
	p := testProvider(t)

	_, err := p.Verify("not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, domain.CodeTokenInvalid, domain.CodeOf(err))
}

func TestVerify_WrongSecret(t *testing.T) {
	p := testProvider(t)
	other, err := NewProvider(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour})
	require.NoError(t, err)

	token, err := other.Sign("identity-123")
	require.NoError(t, err)

	_, err = p.Verify(token)
	require.Error(t, err)
	assert.Equal(t, domain.CodeTokenInvalid, domain.CodeOf(err))
}

func TestVerify_WrongSigningMethod(t *testing.T) {
	p := testProvider(t)

	// alg=none tokens must never pass.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "identity-123"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	require.Error(t, err)
	assert.Equal(t, domain.CodeTokenInvalid, domain.CodeOf(err))
}

func TestVerify_EmptyUserID(t *testing.T) {
	p := testProvider(t)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = p.Verify(signed)
	require.Error(t, err)
	assert.Equal(t, domain.CodeTokenInvalid, domain.CodeOf(err))
}
