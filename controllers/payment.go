// controllers/payment.go
package controllers

import (
	"net/http"

	"restopos-backend/services"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func (pc *PaymentController) Record(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input services.RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := pc.Payments.Record(bizID, orderID, userID, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (pc *PaymentController) ListForOrder(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	payments, err := pc.Payments.ListForOrder(bizID, orderID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
