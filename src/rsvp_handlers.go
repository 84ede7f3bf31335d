package main

import (
	"net/http"
	"wedding/src/controllers"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
)

func rsvpHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/rsvp", func(ctx *gin.Context) {
			entry, status, err := controllers.SubmitRSVP(ctx)
			if err != nil {
				respondError(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"success": true, "data": gin.H{"id": entry.ID, "name": entry.Name}})
		}).
		GET("/rsvp", func(ctx *gin.Context) {
			data, err := utils.ListPublicRSVPs(ctx)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		})
	return g
}
