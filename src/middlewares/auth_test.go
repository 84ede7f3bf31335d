package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"wedding/src/config"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecureHeaders)
	r.GET("/admin/ping", AdminAuthMiddleware, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"role": ctx.GetString("role")})
	})
	return r
}

func TestAdminAuthMiddleware(t *testing.T) {
	config.Set(&config.Config{JWTSecret: "s3cret", AdminSessionTTL: time.Hour, ServiceName: "wedding-api"})
	defer config.Set(nil)
	r := newRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := utils.GenerateAdminJWT(time.Now())
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"admin"}`, w.Body.String())
}

func TestAdminAuthMiddlewareExpired(t *testing.T) {
	config.Set(&config.Config{JWTSecret: "s3cret", AdminSessionTTL: time.Hour, ServiceName: "wedding-api"})
	defer config.Set(nil)
	r := newRouter()

	token, _, err := utils.GenerateAdminJWT(time.Now().Add(-2 * time.Hour))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
