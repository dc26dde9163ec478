// controllers/order.go
package controllers

import (
	"net/http"

	"restopos-backend/services"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
)

// OrderController exposes the order lifecycle over HTTP; all rules
// live in the order service.
type OrderController struct {
	Orders *services.OrderService
}

type itemStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type orderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func (oc *OrderController) Create(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := oc.Orders.Create(bizID, userID, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (oc *OrderController) List(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	orders, err := oc.Orders.List(bizID, c.Query("status"))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) Get(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := oc.Orders.GetByID(bizID, orderID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) UpdateItems(c *gin.Context) {
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

	var input services.UpdateItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := oc.Orders.UpdateItems(bizID, orderID, userID, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) Send(c *gin.Context) {
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

	order, err := oc.Orders.Send(bizID, orderID, userID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) UpdateItemStatus(c *gin.Context) {
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
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}

	var input itemStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := oc.Orders.UpdateItemStatus(bizID, orderID, itemID, userID, input.Status)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
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

	var input orderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := oc.Orders.UpdateStatus(bizID, orderID, userID, input.Status)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) Cancel(c *gin.Context) {
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

	order, err := oc.Orders.Cancel(bizID, orderID, userID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) Kitchen(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	orders, err := oc.Orders.GetKitchenOrders(bizID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) KitchenSummary(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	summary, err := oc.Orders.GetKitchenSummary(bizID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (oc *OrderController) Bar(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	orders, err := oc.Orders.GetBarOrders(bizID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) BarSummary(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	summary, err := oc.Orders.GetBarSummary(bizID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (oc *OrderController) Served(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	orders, err := oc.Orders.GetServedOrders(bizID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
