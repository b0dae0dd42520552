package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"karaoke-browser/infrastructure/utils"
	"karaoke-browser/interfaces/middleware"
)

func newRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity(secret))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.UserIDKey))
	})
	return r
}

func do(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentity_Anonymous(t *testing.T) {
	w := do(newRouter("secret"), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", w.Body.String())
}

func TestIdentity_ValidToken(t *testing.T) {
	token, err := utils.GenerateToken(map[string]interface{}{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "secret")
	require.NoError(t, err)

	w := do(newRouter("secret"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", w.Body.String())
}

func TestIdentity_Rejects(t *testing.T) {
	expired, err := utils.GenerateToken(map[string]interface{}{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, "secret")
	require.NoError(t, err)
	noSubject, err := utils.GenerateToken(map[string]interface{}{"exp": time.Now().Add(time.Hour).Unix()}, "secret")
	require.NoError(t, err)

	r := newRouter("secret")
	for name, auth := range map[string]string{
		"malformed":  "Bearer garbage",
		"expired":    "Bearer " + expired,
		"no subject": "Bearer " + noSubject,
		"no scheme":  "Token abc",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(r, auth).Code)
		})
	}
}
