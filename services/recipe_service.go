// services/recipe_service.go
package services

import (
	"errors"
	"math"

	"restopos-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecipeService consumes ingredient stock when finished products are
// sold, following each product's bill of materials. Deduction has no
// negative-stock guard: quantities may go below zero so overdrafts
// stay visible on the inventory screen.
type RecipeService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRecipeService(db *gorm.DB, log *zap.Logger) *RecipeService {
	return &RecipeService{db: db, log: log}
}

// DeductForProductTx decrements inventory for qty units of one product
// inside the caller's transaction. Products without a recipe are
// skipped. Amounts are rounded up per ingredient.
func (s *RecipeService) DeductForProductTx(tx *gorm.DB, businessID, productID uuid.UUID, qty int) error {
	var recipe models.Recipe
	err := tx.Preload("Items").
		Where("business_id = ? AND product_id = ?", businessID, productID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	for _, item := range recipe.Items {
		amount := math.Ceil(item.Quantity * float64(qty))
		if err := tx.Model(&models.Inventory{}).
			Where("id = ?", item.InventoryID).
			Update("quantity", gorm.Expr("quantity - ?", amount)).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeductForOrderTx applies DeductForProductTx to every item of the
// order; the order's items must already be loaded.
func (s *RecipeService) DeductForOrderTx(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		if err := s.DeductForProductTx(tx, order.BusinessID, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// LowStock lists the ingredients at or below their minimum.
func (s *RecipeService) LowStock(businessID uuid.UUID) ([]models.Inventory, error) {
	var rows []models.Inventory
	err := s.db.Where("business_id = ? AND quantity <= min_stock", businessID).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}
