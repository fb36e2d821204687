package utils_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-portal/internal/utils"
)

func Test_NewAccessToken_RoundTrip(t *testing.T) {
	const secret = "test-secret"

	at, err := utils.NewAccessToken(secret, 42, "LIBRARIAN", "Jamie Reader", "jamie@example.org", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "LIBRARIAN", claims["role"])
	assert.Equal(t, "Jamie Reader", claims["name"])
	assert.Equal(t, "jamie@example.org", claims["email"])
}

func Test_NewAccessToken_RejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("right-secret", 1, "MEMBER", "", "", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func Test_NewRefreshToken(t *testing.T) {
	rt, err := utils.NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96) // 48 random bytes hex encoded

	other, err := utils.NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, rt.Raw, other.Raw)
}

func Test_HashRefreshRaw(t *testing.T) {
	h1 := utils.HashRefreshRaw("some-raw-token")
	h2 := utils.HashRefreshRaw("some-raw-token")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // sha256 hex
	assert.NotEqual(t, h1, utils.HashRefreshRaw("another-token"))
}

func Test_Password_HashAndVerify(t *testing.T) {
	hash, err := utils.HashPassword("s3cret!", 4)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "s3cret!"))
	assert.False(t, utils.VerifyPassword(hash, "wrong"))
	assert.False(t, utils.VerifyPassword("not-a-hash", "s3cret!"))
}
