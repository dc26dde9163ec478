// controllers/shift.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OpenShiftInput struct {
	OpeningBalance float64 `json:"openingBalance" binding:"min=0"`
}

type ShiftExpenseInput struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// OpenShift starts a register session for the current user. One open
// shift per user at a time.
func OpenShift(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input OpenShiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.CashShift
	result := config.DB.Where("business_id = ? AND user_id = ? AND is_open = ?",
		bizID, userID, true).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "A shift is already open for this user")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	shift := models.CashShift{
		BusinessID:     bizID,
		UserID:         userID,
		OpeningBalance: input.OpeningBalance,
		IsOpen:         true,
		OpenedAt:       time.Now(),
	}
	if err := config.DB.Create(&shift).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to open shift")
		return
	}

	c.JSON(http.StatusCreated, shift)
}

// CurrentShift returns the user's open register session, if any.
func CurrentShift(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var shift models.CashShift
	err := config.DB.Where("business_id = ? AND user_id = ? AND is_open = ?",
		bizID, userID, true).First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No open shift")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, shift)
}

// AddShiftExpense records a cash outflow against the open shift.
func AddShiftExpense(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ShiftExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result := config.DB.Model(&models.CashShift{}).
		Where("business_id = ? AND user_id = ? AND is_open = ?", bizID, userID, true).
		Update("total_expenses", gorm.Expr("total_expenses + ?", input.Amount))
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record expense")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "No open shift")
		return
	}

	var shift models.CashShift
	config.DB.Where("business_id = ? AND user_id = ? AND is_open = ?", bizID, userID, true).
		First(&shift)
	c.JSON(http.StatusOK, shift)
}

// CloseShift ends the session and freezes the expected cash figure:
// opening balance plus cash payments taken during the shift minus
// recorded expenses.
func CloseShift(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var shift models.CashShift
	err := tx.Where("business_id = ? AND user_id = ? AND is_open = ?",
		bizID, userID, true).First(&shift).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No open shift")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var cashSales float64
	if err := tx.Model(&models.Payment{}).
		Where("business_id = ? AND user_id = ? AND method = ? AND paid_at >= ?",
			bizID, userID, models.PayCash, shift.OpenedAt).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&cashSales).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to total cash sales")
		return
	}

	now := time.Now()
	shift.IsOpen = false
	shift.ClosedAt = &now
	shift.ExpectedCash = utils.Round2(shift.OpeningBalance + cashSales - shift.TotalExpenses)

	if err := tx.Save(&shift).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to close shift")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, shift)
}
