package middlewares

import (
	"log"
	"net/http"
	"strings"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
)

func AdminAuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	reqToken := strings.TrimSpace(strings.TrimPrefix(bearerToken, "Bearer "))
	if reqToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	claims, err := utils.ParseAdminJWT(reqToken)
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ctx.Set("role", claims.Role)
	ctx.Set("sub", claims.Subject)
}
