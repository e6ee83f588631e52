package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/momento-app/momento_backend/middleware"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, CheckPassword("correct horse battery staple", hash))
	assert.Error(t, CheckPassword("wrong password", hash))
}

func TestGetUserIDFromToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("extracts the id from valid claims", func(t *testing.T) {
		want := primitive.NewObjectID()
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("user", &jwt.Token{Claims: &middleware.JwtCustomClaims{UserID: want.Hex()}})

		got, err := GetUserIDFromToken(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("rejects a context without a token", func(t *testing.T) {
		c := e.NewContext(req, httptest.NewRecorder())

		_, err := GetUserIDFromToken(c)
		assert.Error(t, err)
	})

	t.Run("rejects a non-hex user id", func(t *testing.T) {
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("user", &jwt.Token{Claims: &middleware.JwtCustomClaims{UserID: "not-hex"}})

		_, err := GetUserIDFromToken(c)
		assert.Error(t, err)
	})
}
