package main

import (
	"net/http"
	"wedding/src/controllers"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
)

func galleryHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/gallery", func(ctx *gin.Context) {
			var filters types.GalleryQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			data, err := utils.ListGalleryItems(ctx, filters.Category, true)
			if err != nil {
				respondError(ctx, controllers.StatusFor(err), err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		POST("/gallery", func(ctx *gin.Context) {
			item, status, err := controllers.UploadGalleryItem(ctx)
			if err != nil {
				respondError(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"success": true, "data": item})
		})
	return g
}
