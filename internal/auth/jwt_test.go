package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	Secret:   []byte("test-secret"),
	Issuer:   "chatline",
	Audience: "chatline-clients",
}

func TestVerifyRoundTrip(t *testing.T) {
	token, err := Sign(testConfig, "u42", time.Minute)
	require.NoError(t, err)

	identity, err := NewVerifier(testConfig).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u42", identity)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Sign(testConfig, "u42", time.Minute)
	require.NoError(t, err)

	other := testConfig
	other.Secret = []byte("different-secret")

	_, err = NewVerifier(other).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := Sign(testConfig, "u42", -time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier(testConfig).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	other := testConfig
	other.Issuer = "someone-else"
	token, err := Sign(other, "u42", time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier(testConfig).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewVerifier(testConfig).Verify("not-a-token")
	assert.Error(t, err)
}
