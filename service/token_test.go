package service

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("LoadTest1", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	org, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "LoadTest1", org)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not-a-jwt")
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := GenerateToken("LoadTest1", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenWrongKey(t *testing.T) {
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"org": "LoadTest1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = VerifyToken(signed)
	assert.Error(t, err)
}

func TestVerifyTokenMissingOrg(t *testing.T) {
	anon := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := anon.SignedString([]byte(tokenSecret))
	require.NoError(t, err)

	_, err = VerifyToken(signed)
	assert.Error(t, err)
}
