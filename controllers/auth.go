// controllers/auth.go
package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password" binding:"required,min=8"`
	Name            string  `json:"name" binding:"required"`
	BusinessName    string  `json:"businessName" binding:"required"`
	BusinessAddress string  `json:"businessAddress"`
	BusinessPhone   string  `json:"businessPhone"`
	TaxRate         float64 `json:"taxRate" binding:"min=0"`
	TipRate         float64 `json:"tipRate" binding:"min=0"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PinLoginInput struct {
	BusinessID string `json:"businessId" binding:"required"`
	PIN        string `json:"pin" binding:"required"`
}

// Register creates a business with its OWNER user and a trial license.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.BusinessPhone != "" && !utils.ValidatePhone(input.BusinessPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid business phone")
		return
	}

	var existingUser models.User
	result := config.DB.Where("email = ?", input.Email).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	business := models.Business{
		Name:    input.BusinessName,
		Address: input.BusinessAddress,
		Phone:   input.BusinessPhone,
		TaxRate: input.TaxRate,
		TipRate: input.TipRate,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&business).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create business")
		return
	}

	owner := models.User{
		BusinessID: business.ID,
		Email:      input.Email,
		Password:   input.Password, // hashed in BeforeCreate hook
		Name:       input.Name,
		Role:       models.RoleOwner,
	}
	if err := tx.Create(&owner).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	license := models.License{
		BusinessID: business.ID,
		Type:       "TRIAL",
		Status:     models.LicenseActive,
		StartDate:  time.Now(),
		EndDate:    time.Now().AddDate(0, 1, 0),
	}
	if err := tx.Create(&license).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create license")
		return
	}

	tx.Commit()

	token, err := utils.GenerateToken(owner.ID.String(), business.ID.String(), owner.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":       owner.ID,
			"email":    owner.Email,
			"name":     owner.Name,
			"role":     owner.Role,
			"business": business.Name,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	email := strings.TrimSpace(input.Email)

	var user models.User
	result := config.DB.Where("email = ? AND is_active = ?", email, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.BusinessID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// PinLogin signs a terminal user in with the 4-digit PIN shared
// tablets use on the floor.
func PinLogin(c *gin.Context) {
	var input PinLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if !utils.ValidatePIN(input.PIN) {
		utils.RespondWithError(c, http.StatusBadRequest, "PIN must be 4 digits")
		return
	}

	var user models.User
	result := config.DB.Where("business_id = ? AND pin = ? AND is_active = ?",
		input.BusinessID, input.PIN, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid PIN")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.BusinessID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":   user.ID,
			"name": user.Name,
			"role": user.Role,
		},
	})
}

func Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// LicenseRequired blocks API access for tenants without a currently
// valid ACTIVE license.
func LicenseRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := businessID(c)
		if !ok {
			c.Abort()
			return
		}

		var license models.License
		err := config.DB.Where("business_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			id, models.LicenseActive, time.Now(), time.Now()).
			First(&license).Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "No active license"})
			return
		}

		c.Next()
	}
}
