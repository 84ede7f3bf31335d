package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"
	"wedding/src/config"
	"wedding/src/lib"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
)

type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func loginAttemptsKey(ip string) string {
	return fmt.Sprintf("admin:login:%s", ip)
}

// AdminLogin exchanges the shared admin password for a session token.
func AdminLogin(ctx *gin.Context) (session *AdminSession, status int, err error) {
	var body types.AdminLoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	c := config.Get()
	key := loginAttemptsKey(ctx.ClientIP())
	if lib.AttemptsExceeded(ctx, key, c.AdminLoginMaxAttempts) {
		log.Printf("Admin login locked for %s\n", ctx.ClientIP())
		return nil, http.StatusTooManyRequests, types.ErrTooManyAttempts
	}
	if !utils.CheckAdminPassword(body.Password) {
		if !lib.AllowAttempt(ctx, key, c.AdminLoginMaxAttempts, c.AdminLoginWindow) {
			log.Printf("Too many admin login attempts from %s\n", ctx.ClientIP())
			return nil, http.StatusTooManyRequests, types.ErrTooManyAttempts
		}
		log.Printf("Invalid admin password from %s\n", ctx.ClientIP())
		return nil, http.StatusUnauthorized, types.ErrUnauthorized
	}
	token, expiresAt, err := utils.GenerateAdminJWT(time.Now())
	if err != nil {
		log.Printf("Error signing admin token: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	lib.ResetAttempts(ctx, key)
	return &AdminSession{Token: token, ExpiresAt: expiresAt}, http.StatusOK, nil
}
