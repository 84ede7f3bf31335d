package main

import (
	"net/http"
	"wedding/src/controllers"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func giftHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/gifts", func(ctx *gin.Context) {
			var filters types.GiftQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			data, err := utils.ListGifts(ctx, filters.Category)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/gifts/categories", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"data": types.GiftCategoryList})
		}).
		GET("/gifts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gift, err := utils.GetGift(ctx, uuid.MustParse(params.ID))
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gift})
		})
	return g
}
