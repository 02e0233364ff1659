package jwt

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/itchan-dev/gallery/shared/domain"
	internal_errors "github.com/itchan-dev/gallery/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenAndDecode(t *testing.T) {
	svc := New("secret", time.Hour)

	token, err := svc.NewToken(domain.Principal{Subject: "ops", Admin: true})
	require.NoError(t, err)

	decoded, err := svc.DecodeToken(token)
	require.NoError(t, err)
	claims, ok := decoded.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "ops", claims["sub"])
	assert.Equal(t, true, claims["admin"])
}

func TestDecodeToken_Rejects(t *testing.T) {
	assertUnauthorized := func(t *testing.T, err error) {
		t.Helper()
		var withStatus *internal_errors.ErrorWithStatusCode
		require.True(t, errors.As(err, &withStatus))
		assert.Equal(t, http.StatusUnauthorized, withStatus.StatusCode)
	}

	t.Run("wrong key", func(t *testing.T) {
		token, err := New("other", time.Hour).NewToken(domain.Principal{Subject: "x", Admin: true})
		require.NoError(t, err)

		_, err = New("secret", time.Hour).DecodeToken(token)

		assertUnauthorized(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := New("secret", -time.Minute).NewToken(domain.Principal{Subject: "x", Admin: true})
		require.NoError(t, err)

		_, err = New("secret", time.Hour).DecodeToken(token)

		assertUnauthorized(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := New("secret", time.Hour).DecodeToken("not.a.token")

		assertUnauthorized(t, err)
	})

	t.Run("unsigned", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"admin": true}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = New("secret", time.Hour).DecodeToken(unsigned)

		assertUnauthorized(t, err)
	})
}
