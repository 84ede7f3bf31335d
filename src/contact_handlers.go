package main

import (
	"log"
	"net/http"
	"wedding/src/controllers"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
)

func contactHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/contact", func(ctx *gin.Context) {
		var body types.ContactRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.SendContactMessage(ctx, &body); err != nil {
			log.Printf("Error queueing contact message: %s\n", err.Error())
			respondError(ctx, controllers.StatusFor(err), err)
			return
		}
		ctx.JSON(http.StatusAccepted, gin.H{"success": true})
	})
	return g
}
