// controllers/table.go
package controllers

import (
	"errors"
	"net/http"

	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateTableInput struct {
	Number      int     `json:"number" binding:"required,min=1"`
	Capacity    int     `json:"capacity" binding:"min=1"`
	PIN         string  `json:"pin"`
	PosX        float64 `json:"posX"`
	PosY        float64 `json:"posY"`
	Orientation int     `json:"orientation"`
}

type UpdateTableInput struct {
	Number      *int     `json:"number" binding:"omitempty,min=1"`
	Capacity    *int     `json:"capacity" binding:"omitempty,min=1"`
	PIN         *string  `json:"pin"`
	PosX        *float64 `json:"posX"`
	PosY        *float64 `json:"posY"`
	Orientation *int     `json:"orientation"`
}

type TableStatusInput struct {
	Status       string  `json:"status" binding:"required,oneof=FREE OCCUPIED RESERVED CLEANING"`
	ReservedByID *string `json:"reservedById"`
}

func CreateTable(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	var input CreateTableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.PIN != "" && !utils.ValidatePIN(input.PIN) {
		utils.RespondWithError(c, http.StatusBadRequest, "PIN must be 4 digits")
		return
	}

	capacity := input.Capacity
	if capacity == 0 {
		capacity = 4
	}

	table := models.Table{
		BusinessID:  bizID,
		Number:      input.Number,
		Capacity:    capacity,
		Status:      models.TableFree,
		PIN:         input.PIN,
		PosX:        input.PosX,
		PosY:        input.PosY,
		Orientation: input.Orientation,
	}
	if err := config.DB.Create(&table).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create table")
		return
	}

	c.JSON(http.StatusCreated, table)
}

func GetTables(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	var tables []models.Table
	if err := config.DB.Where("business_id = ?", bizID).
		Order("number ASC").
		Find(&tables).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tables")
		return
	}

	c.JSON(http.StatusOK, tables)
}

func GetTable(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var table models.Table
	if err := config.DB.Where("business_id = ? AND id = ?", bizID, tableID).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Table not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, table)
}

func UpdateTable(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateTableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var table models.Table
	if err := config.DB.Where("business_id = ? AND id = ?", bizID, tableID).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Table not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Number != nil {
		table.Number = *input.Number
	}
	if input.Capacity != nil {
		table.Capacity = *input.Capacity
	}
	if input.PIN != nil {
		if *input.PIN != "" && !utils.ValidatePIN(*input.PIN) {
			utils.RespondWithError(c, http.StatusBadRequest, "PIN must be 4 digits")
			return
		}
		table.PIN = *input.PIN
	}
	if input.PosX != nil {
		table.PosX = *input.PosX
	}
	if input.PosY != nil {
		table.PosY = *input.PosY
	}
	if input.Orientation != nil {
		table.Orientation = *input.Orientation
	}

	if err := config.DB.Save(&table).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update table")
		return
	}

	c.JSON(http.StatusOK, table)
}

// UpdateTableStatus handles manual floor management (reserve, mark for
// cleaning, free after cleaning). Occupation and payment-release are
// driven by the order lifecycle, but staff can still correct a table
// by hand here.
func UpdateTableStatus(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input TableStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.Status == models.TableReserved && input.ReservedByID != nil {
		updates["reserved_by_id"] = *input.ReservedByID
	}
	if input.Status == models.TableFree {
		updates["reserved_by_id"] = nil
	}

	result := config.DB.Model(&models.Table{}).
		Where("business_id = ? AND id = ?", bizID, tableID).
		Updates(updates)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update table status")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Table not found")
		return
	}

	var table models.Table
	config.DB.First(&table, "id = ?", tableID)
	c.JSON(http.StatusOK, table)
}

func DeleteTable(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var table models.Table
	if err := config.DB.Where("business_id = ? AND id = ?", bizID, tableID).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Table not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if table.Status == models.TableOccupied {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "An occupied table cannot be deleted")
		return
	}

	if err := config.DB.Delete(&table).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete table")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Table deleted successfully"})
}
