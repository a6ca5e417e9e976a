package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vehicle-repair-shop/internal/utils"
)

const testSecret = "mw-secret"

func runJWTAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		uid, ok := c.Get("user_id").(uint64)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"id": uid})
	}
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	return rec, called
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, called := runJWTAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.JSONEq(t, `{"error":"token required"}`, rec.Body.String())
}

func TestJWTAuthNonBearerHeader(t *testing.T) {
	rec, called := runJWTAuth(t, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, called := runJWTAuth(t, "Bearer garbage")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
	assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 9, -1)
	require.NoError(t, err)

	rec, called := runJWTAuth(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 9, 60)
	require.NoError(t, err)

	rec, called := runJWTAuth(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.JSONEq(t, `{"id":9}`, rec.Body.String())
}
