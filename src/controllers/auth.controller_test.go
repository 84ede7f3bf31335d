package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"wedding/src/config"
	"wedding/src/lib"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginKey = "admin:login:192.0.2.1"

func loginContext(password string) *gin.Context {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"password":"`+password+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:40000"
	ctx.Request = req
	return ctx
}

func setupLogin(t *testing.T) redismock.ClientMock {
	config.Set(&config.Config{
		AdminPassword:         "casamento2025",
		JWTSecret:             "s3cret",
		AdminSessionTTL:       time.Hour,
		AdminLoginMaxAttempts: 3,
		AdminLoginWindow:      time.Minute,
	})
	rdb, mock := redismock.NewClientMock()
	lib.NewRedisClient(rdb)
	t.Cleanup(func() {
		lib.NewRedisClient(nil)
		config.Set(nil)
	})
	return mock
}

func TestAdminLoginSuccessResetsAttempts(t *testing.T) {
	mock := setupLogin(t)
	mock.ExpectGet(loginKey).SetVal("1")
	mock.ExpectDel(loginKey).SetVal(1)

	session, status, err := AdminLogin(loginContext("casamento2025"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, session.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminLoginWrongPasswordCounts(t *testing.T) {
	mock := setupLogin(t)
	mock.ExpectGet(loginKey).RedisNil()
	mock.ExpectIncr(loginKey).SetVal(1)
	mock.ExpectExpire(loginKey, time.Minute).SetVal(true)

	_, status, err := AdminLogin(loginContext("errada"))
	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminLoginLockedOutEvenWithCorrectPassword(t *testing.T) {
	mock := setupLogin(t)
	mock.ExpectGet(loginKey).SetVal("3")

	session, status, err := AdminLogin(loginContext("casamento2025"))
	assert.Error(t, err)
	assert.Nil(t, session)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
