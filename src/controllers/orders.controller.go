package controllers

import (
	"log"
	"net/http"
	"wedding/src/models"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateOrder(ctx *gin.Context) (res *types.CreateOrderResponse, status int, err error) {
	var body types.CreateOrderRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	res, err = utils.CreateOrder(ctx, &body)
	if err != nil {
		log.Printf("Error creating order for %s: %s\n", body.BuyerEmail, err.Error())
		return nil, StatusFor(err), err
	}
	return res, http.StatusCreated, nil
}

func bindOrderID(ctx *gin.Context) (uuid.UUID, error) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(params.ID)
}

func ConfirmOrder(ctx *gin.Context) (order *models.GiftOrder, status int, err error) {
	id, err := bindOrderID(ctx)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	order, err = utils.ConfirmOrder(ctx, id)
	if err != nil {
		log.Printf("Error confirming order [%s]: %s\n", id, err.Error())
		return nil, StatusFor(err), err
	}
	return order, http.StatusOK, nil
}

func RejectOrder(ctx *gin.Context) (order *models.GiftOrder, status int, err error) {
	id, err := bindOrderID(ctx)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	var body types.RejectOrderRequestBody
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&body); err != nil {
			return nil, http.StatusBadRequest, err
		}
	}
	order, err = utils.RejectOrder(ctx, id, body.Reason)
	if err != nil {
		log.Printf("Error rejecting order [%s]: %s\n", id, err.Error())
		return nil, StatusFor(err), err
	}
	return order, http.StatusOK, nil
}
