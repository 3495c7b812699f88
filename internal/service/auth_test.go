package service

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatorLogin(t *testing.T) {
	auth := NewAuthenticator("pantry", "secret", slog.Default())

	session, err := auth.Login("pantry", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "pantry", session.Username)
	assert.Same(t, session, auth.Lookup(session.Token))
}

func TestAuthenticatorLogin_Invalid(t *testing.T) {
	auth := NewAuthenticator("pantry", "secret", slog.Default())

	_, err := auth.Login("pantry", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login("someone", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticatorLogout(t *testing.T) {
	auth := NewAuthenticator("pantry", "secret", slog.Default())

	first, err := auth.Login("pantry", "secret")
	require.NoError(t, err)
	second, err := auth.Login("pantry", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	auth.Logout(first.Token)
	assert.Nil(t, auth.Lookup(first.Token))
	assert.NotNil(t, auth.Lookup(second.Token))

	auth.Logout("unknown")
}
