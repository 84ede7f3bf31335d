package main

import (
	"net/http"
	"wedding/src/controllers"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func adminLoginHandler(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/admin/login", func(ctx *gin.Context) {
		session, status, err := controllers.AdminLogin(ctx)
		if err != nil {
			respondError(ctx, status, err)
			return
		}
		ctx.JSON(status, gin.H{"data": session})
	})
	return g
}

func bindID(ctx *gin.Context) (uuid.UUID, bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, false
	}
	return uuid.MustParse(params.ID), true
}

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/orders", func(ctx *gin.Context) {
			var filters types.OrderQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			data, err := utils.ListOrders(ctx, filters.Status)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/orders/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			order, err := utils.GetOrder(ctx, id)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": order})
		}).
		POST("/orders/:id/confirm", func(ctx *gin.Context) {
			order, status, err := controllers.ConfirmOrder(ctx)
			if err != nil {
				respondError(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"success": true, "data": order})
		}).
		POST("/orders/:id/reject", func(ctx *gin.Context) {
			order, status, err := controllers.RejectOrder(ctx)
			if err != nil {
				respondError(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"success": true, "data": order})
		}).
		PUT("/gifts/:id/inventory", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.UpdateInventoryRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gift, err := utils.UpdateGiftInventory(ctx, id, *body.Quantity, *body.Reserved, *body.Sold)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gift})
		}).
		GET("/rsvp", func(ctx *gin.Context) {
			data, err := utils.ListRSVPs(ctx)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/rsvp/stats", func(ctx *gin.Context) {
			total, err := utils.CountRSVPs(ctx)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total}})
		}).
		GET("/gallery", func(ctx *gin.Context) {
			var filters types.GalleryQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			data, err := utils.ListGalleryItems(ctx, filters.Category, false)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		PUT("/gallery/:id/approval", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.GalleryApprovalRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			item, err := utils.SetGalleryApproval(ctx, id, *body.Approved)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": item})
		}).
		DELETE("/gallery/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			if err := utils.DeleteGalleryItem(ctx, id); err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
