package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", "42", "CUSTOMER", time.Minute)
	require.NoError(t, err)

	c, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "42", Role: "CUSTOMER"}, c)
}

func TestParseAccessTokenRejects(t *testing.T) {
	expired, err := NewAccessToken("secret", "42", "CUSTOMER", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewAccessToken("other", "42", "CUSTOMER", time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", other.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", noRole)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenNumericSubject(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  7,
		"role": "ADMIN",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	c, err := ParseAccessToken("secret", raw)
	require.NoError(t, err)
	assert.Equal(t, "7", c.UserID)
	assert.Equal(t, "ADMIN", c.Role)
}
