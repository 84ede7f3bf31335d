package controllers

import (
	"log"
	"net/http"
	"wedding/src/models"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
)

func UploadGalleryItem(ctx *gin.Context) (item *models.GalleryItem, status int, err error) {
	var body types.UploadGalleryRequestBody
	if err := ctx.ShouldBind(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	f, err := fh.Open()
	if err != nil {
		log.Printf("Error opening upload: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	defer f.Close()

	item, err = utils.UploadGalleryItem(ctx, &body, &utils.GalleryUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		log.Printf("Error uploading gallery item: %s\n", err.Error())
		return nil, StatusFor(err), err
	}
	return item, http.StatusCreated, nil
}
