package service

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "production-system/pkg/errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken("operator-1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator-1", claims.Subject)
	assert.Equal(t, time.Hour, svc.GetAccessTokenTTL())
}

func TestJWTService_Expired(t *testing.T) {
	svc := &jwtService{SecretKey: "secret", AccessTokenExp: time.Minute, now: func() time.Time {
		return time.Now().Add(-time.Hour)
	}}
	token, err := svc.GenerateToken("operator-1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_WrongSecretAndMethod(t *testing.T) {
	token, err := NewJWTService("other", time.Hour).GenerateToken("x")
	require.NoError(t, err)
	_, err = NewJWTService("secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &JwtCustomClaim{Subject: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewJWTService("secret", time.Hour).ValidateToken(unsigned)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSigningMethod)

	_, err = NewJWTService("secret", time.Hour).ValidateToken("garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
