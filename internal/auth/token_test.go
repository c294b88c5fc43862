package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagenda/internal/db"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &db.User{ID: 7, Email: "ana@test.com", Role: "NUTRITIONIST"}

	token, err := MakeToken(user, "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ana@test.com", claims.Email)
	assert.Equal(t, "NUTRITIONIST", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	user := &db.User{ID: 7, Email: "ana@test.com", Role: "CLIENT"}

	token, err := MakeToken(user, "secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "secret")
	assert.Error(t, err)
}
