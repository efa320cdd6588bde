package auth

import (
	"testing"
	"time"

	"skillsphere/internal/api"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestIntrospect_ValidToken(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	id, err := Introspect(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), id.ExpiresAt, 5*time.Second)
}

func TestIntrospect_ExpiredToken(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := Introspect(raw)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestIntrospect_MissingSubject(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := Introspect(raw)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestIntrospect_NonNumericSubject(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := Introspect(raw)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestIntrospect_MalformedToken(t *testing.T) {
	_, err := Introspect("not-a-jwt")
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestIdentify_EmptyToken(t *testing.T) {
	_, err := Identify(StaticToken(""))
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}
