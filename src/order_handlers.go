package main

import (
	"net/http"
	"wedding/src/controllers"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
)

func orderHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/orders", func(ctx *gin.Context) {
			res, status, err := controllers.CreateOrder(ctx)
			if err != nil {
				respondError(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"success": true, "data": res})
		}).
		GET("/orders/:number", func(ctx *gin.Context) {
			order, err := utils.GetOrderByNumber(ctx, ctx.Param("number"))
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"orderNumber": order.OrderNumber,
				"status":      order.Status,
				"total":       order.Total,
				"items":       order.Items,
				"pixCode":     order.PixCode,
				"createdAt":   order.CreatedAt,
				"confirmedAt": order.ConfirmedAt,
			}})
		})
	return g
}
