// controllers/user.go
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

type AddStaffInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=ADMIN CAMARERO COCINERO BARTENDER CAJERO SUPERVISOR"`
	PIN      string `json:"pin"`
}

type UpdateStaffInput struct {
	Name     *string `json:"name"`
	Role     *string `json:"role" binding:"omitempty,oneof=ADMIN CAMARERO COCINERO BARTENDER CAJERO SUPERVISOR"`
	PIN      *string `json:"pin"`
	IsActive *bool   `json:"isActive"`
}

func GetStaff(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	var users []models.User
	if err := config.DB.Where("business_id = ?", bizID).
		Order("name ASC").
		Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve staff")
		return
	}

	c.JSON(http.StatusOK, users)
}

func AddStaff(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	var input AddStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.PIN != "" && !utils.ValidatePIN(input.PIN) {
		utils.RespondWithError(c, http.StatusBadRequest, "PIN must be 4 digits")
		return
	}

	var existing models.User
	result := config.DB.Where("email = ?", input.Email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		BusinessID: bizID,
		Email:      input.Email,
		Password:   input.Password, // hashed in BeforeCreate hook
		Name:       input.Name,
		Role:       input.Role,
		PIN:        input.PIN,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func UpdateStaff(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	staffID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("business_id = ? AND id = ?", bizID, staffID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if user.Role == models.RoleOwner {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "The owner account cannot be edited here")
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.PIN != nil {
		if *input.PIN != "" && !utils.ValidatePIN(*input.PIN) {
			utils.RespondWithError(c, http.StatusBadRequest, "PIN must be 4 digits")
			return
		}
		user.PIN = *input.PIN
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	// Save on selected columns so the password hash hook is not re-run
	if err := config.DB.Model(&user).
		Select("name", "role", "pin", "is_active").
		Updates(map[string]interface{}{
			"name":      user.Name,
			"role":      user.Role,
			"pin":       user.PIN,
			"is_active": user.IsActive,
		}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteStaff deactivates the account; audit logs keep pointing at it.
func DeleteStaff(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	staffID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Where("business_id = ? AND id = ?", bizID, staffID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if user.Role == models.RoleOwner {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "The owner account cannot be deactivated")
		return
	}

	if err := config.DB.Model(&user).Update("is_active", false).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}
