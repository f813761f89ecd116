package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/starkeeper/internal/storage"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func token(t *testing.T, sub string, exp time.Time, secret string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestResolve_ExplicitAccountWins(t *testing.T) {
	a, err := Resolve(Credentials{AccountID: "acct-1", AccessToken: "garbage"}, now)
	require.NoError(t, err)
	assert.Equal(t, Account{ID: "acct-1", Source: SourceConfig}, a)
	assert.False(t, a.IsGuest())
}

func TestResolve_NothingConfiguredIsGuest(t *testing.T) {
	a, err := Resolve(Credentials{}, now)
	require.NoError(t, err)
	assert.Equal(t, Guest, a)
	assert.True(t, a.IsGuest())
}

func TestResolve_VerifiedToken(t *testing.T) {
	tok := token(t, "acct-7", now.Add(time.Hour), "s3cret")

	a, err := Resolve(Credentials{AccessToken: tok, JWTSecret: "s3cret"}, now)
	require.NoError(t, err)
	assert.Equal(t, Account{ID: "acct-7", Source: SourceToken}, a)
}

func TestResolve_UnverifiedToken(t *testing.T) {
	tok := token(t, "acct-8", now.Add(time.Hour), "whatever")

	a, err := Resolve(Credentials{AccessToken: tok}, now)
	require.NoError(t, err)
	assert.Equal(t, "acct-8", a.ID)
}

func TestResolve_BadTokensFallBackToGuest(t *testing.T) {
	cases := map[string]Credentials{
		"expired":      {AccessToken: token(t, "a", now.Add(-time.Minute), "k"), JWTSecret: "k"},
		"expired raw":  {AccessToken: token(t, "a", now.Add(-time.Minute), "k")},
		"wrong secret": {AccessToken: token(t, "a", now.Add(time.Hour), "k"), JWTSecret: "other"},
		"no subject":   {AccessToken: token(t, "", now.Add(time.Hour), "k"), JWTSecret: "k"},
		"malformed":    {AccessToken: "not.a.jwt"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			a, err := Resolve(c, now)
			assert.ErrorIs(t, err, storage.ErrAuth)
			assert.Equal(t, Guest, a)
		})
	}
}

func TestResolve_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "a"})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = Resolve(Credentials{AccessToken: s, JWTSecret: "k"}, now)
	assert.ErrorIs(t, err, storage.ErrAuth)
}
