package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, handler echo.HandlerFunc, token string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTMiddleware()(handler)(c)
	require.NoError(t, err)
	return rec
}

func TestJWTMiddlewareSetsClaims(t *testing.T) {
	token, err := GenerateToken(42, "buyer@example.com", "buyer", 1)
	require.NoError(t, err)

	rec := doRequest(t, func(c echo.Context) error {
		claims := GetClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "buyer@example.com", claims.Email)
		return c.NoContent(http.StatusOK)
	}, token)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	handler := func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	}

	rec := doRequest(t, handler, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, handler, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	buyerToken, err := GenerateToken(7, "buyer@example.com", "buyer", 1)
	require.NoError(t, err)
	rec := doRequest(t, AdminOnly(ok), buyerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := GenerateToken(1, "admin@example.com", "admin", 1)
	require.NoError(t, err)
	rec = doRequest(t, AdminOnly(ok), adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}
