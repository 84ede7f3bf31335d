package controllers

import (
	"log"
	"net/http"
	"wedding/src/models"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
)

func SubmitRSVP(ctx *gin.Context) (entry *models.RSVP, status int, err error) {
	var body types.CreateRSVPRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	entry, err = utils.SubmitRSVP(ctx, &body)
	if err != nil {
		log.Printf("Error saving RSVP: %s\n", err.Error())
		return nil, StatusFor(err), err
	}
	return entry, http.StatusCreated, nil
}
