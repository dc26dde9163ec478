// controllers/product.go
package controllers

import (
	"errors"
	"net/http"

	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateCategoryInput struct {
	Name string `json:"name" binding:"required"`
}

type CreateProductInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Price       float64    `json:"price" binding:"required,gt=0"`
	Type        string     `json:"type" binding:"required,oneof=FOOD DRINK"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	TrackStock  bool       `json:"trackStock"`
}

type UpdateProductInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price" binding:"omitempty,gt=0"`
	Type        *string    `json:"type" binding:"omitempty,oneof=FOOD DRINK"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	IsActive    *bool      `json:"isActive"`
	TrackStock  *bool      `json:"trackStock"`
}

func CreateCategory(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	category := models.Category{BusinessID: bizID, Name: input.Name, IsActive: true}
	if err := config.DB.Create(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

func GetCategories(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	var categories []models.Category
	if err := config.DB.Where("business_id = ?", bizID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

func DeleteCategory(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("business_id = ? AND id = ?", bizID, categoryID).
		Delete(&models.Category{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func CreateProduct(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CategoryID != nil {
		var category models.Category
		if err := config.DB.Where("business_id = ? AND id = ?", bizID, *input.CategoryID).
			First(&category).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Category not found")
			return
		}
	}

	product := models.Product{
		BusinessID:  bizID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Type:        input.Type,
		IsActive:    true,
		TrackStock:  input.TrackStock,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func GetProducts(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	q := config.DB.Preload("Category").Where("business_id = ?", bizID)
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, products)
}

func GetProduct(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Preload("Category").
		Where("business_id = ? AND id = ?", bizID, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

func UpdateProduct(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("business_id = ? AND id = ?", bizID, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Type != nil {
		product.Type = *input.Type
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.TrackStock != nil {
		product.TrackStock = *input.TrackStock
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct deactivates rather than removes: order items keep their
// price snapshots and the product stays resolvable for history.
func DeleteProduct(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Model(&models.Product{}).
		Where("business_id = ? AND id = ?", bizID, productID).
		Update("is_active", false)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}
