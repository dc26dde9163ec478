// controllers/inventory.go
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

type CreateInventoryInput struct {
	Name     string  `json:"name" binding:"required"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
	MinStock float64 `json:"minStock" binding:"min=0"`
}

type UpdateInventoryInput struct {
	Name     *string  `json:"name"`
	Unit     *string  `json:"unit"`
	Quantity *float64 `json:"quantity"`
	MinStock *float64 `json:"minStock" binding:"omitempty,min=0"`
}

type RecipeItemInput struct {
	InventoryID uuid.UUID `json:"inventoryId" binding:"required"`
	Quantity    float64   `json:"quantity" binding:"required,gt=0"`
}

type SetRecipeInput struct {
	Items []RecipeItemInput `json:"items" binding:"required,min=1,dive"`
}

func CreateInventory(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	var input CreateInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	unit := input.Unit
	if unit == "" {
		unit = "unit"
	}

	item := models.Inventory{
		BusinessID: bizID,
		Name:       input.Name,
		Unit:       unit,
		Quantity:   input.Quantity,
		MinStock:   input.MinStock,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create inventory item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

func GetInventory(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	q := config.DB.Where("business_id = ?", bizID)
	if c.Query("low") == "true" {
		q = q.Where("quantity <= min_stock")
	}

	var items []models.Inventory
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve inventory")
		return
	}

	c.JSON(http.StatusOK, items)
}

func UpdateInventory(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item models.Inventory
	if err := config.DB.Where("business_id = ? AND id = ?", bizID, itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.MinStock != nil {
		item.MinStock = *input.MinStock
	}

	if err := config.DB.Save(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update inventory item")
		return
	}

	c.JSON(http.StatusOK, item)
}

func DeleteInventory(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("business_id = ? AND id = ?", bizID, itemID).
		Delete(&models.Inventory{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete inventory item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}

// SetRecipe replaces a product's bill of materials wholesale.
func SetRecipe(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	var input SetRecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("business_id = ? AND id = ?", bizID, productID).
		First(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	for _, item := range input.Items {
		var ingredient models.Inventory
		if err := config.DB.Where("business_id = ? AND id = ?", bizID, item.InventoryID).
			First(&ingredient).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest,
				"Inventory item not found: "+item.InventoryID.String())
			return
		}
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var recipe models.Recipe
	err := tx.Where("business_id = ? AND product_id = ?", bizID, productID).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		recipe = models.Recipe{BusinessID: bizID, ProductID: productID}
		if err := tx.Create(&recipe).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create recipe")
			return
		}
	} else if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear recipe items")
		return
	}

	for _, item := range input.Items {
		recipeItem := models.RecipeItem{
			RecipeID:    recipe.ID,
			InventoryID: item.InventoryID,
			Quantity:    item.Quantity,
		}
		if err := tx.Create(&recipeItem).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save recipe items")
			return
		}
	}

	tx.Commit()

	var saved models.Recipe
	config.DB.Preload("Items.Inventory").First(&saved, "id = ?", recipe.ID)
	c.JSON(http.StatusOK, saved)
}

func GetRecipe(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	var recipe models.Recipe
	err := config.DB.Preload("Items.Inventory").
		Where("business_id = ? AND product_id = ?", bizID, productID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Recipe not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, recipe)
}
