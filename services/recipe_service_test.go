package services

import (
	"testing"

	"restopos-backend/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (f *fixture) seedRecipe(t *testing.T, perUnit float64, stock float64) models.Inventory {
	t.Helper()

	ingredient := models.Inventory{
		BusinessID: f.business.ID, Name: "Rice", Unit: "kg",
		Quantity: stock, MinStock: 2,
	}
	require.NoError(t, f.db.Create(&ingredient).Error)

	recipe := models.Recipe{BusinessID: f.business.ID, ProductID: f.food.ID}
	require.NoError(t, f.db.Create(&recipe).Error)
	require.NoError(t, f.db.Create(&models.RecipeItem{
		RecipeID: recipe.ID, InventoryID: ingredient.ID, Quantity: perUnit,
	}).Error)

	return ingredient
}

func (f *fixture) reloadInventory(t *testing.T, id interface{}) models.Inventory {
	t.Helper()
	var inv models.Inventory
	require.NoError(t, f.db.First(&inv, "id = ?", id).Error)
	return inv
}

func TestDeduct_RoundsUpPerIngredient(t *testing.T) {
	f := newFixture(t)
	ingredient := f.seedRecipe(t, 0.4, 10)

	recipes := NewRecipeService(f.db, zap.NewNop())
	require.NoError(t, recipes.DeductForProductTx(f.db, f.business.ID, f.food.ID, 3))

	// ceil(0.4 * 3) = 2
	require.Equal(t, 8.0, f.reloadInventory(t, ingredient.ID).Quantity)
}

func TestDeduct_AllowsNegativeStock(t *testing.T) {
	f := newFixture(t)
	ingredient := f.seedRecipe(t, 5, 3)

	recipes := NewRecipeService(f.db, zap.NewNop())
	require.NoError(t, recipes.DeductForProductTx(f.db, f.business.ID, f.food.ID, 1))

	inv := f.reloadInventory(t, ingredient.ID)
	require.Equal(t, -2.0, inv.Quantity)
	require.True(t, inv.Low())
}

func TestDeduct_SkipsProductsWithoutRecipe(t *testing.T) {
	f := newFixture(t)

	recipes := NewRecipeService(f.db, zap.NewNop())
	require.NoError(t, recipes.DeductForProductTx(f.db, f.business.ID, f.drink.ID, 2))
}

func TestDeduct_RunsOnceWhenOrderIsPaid(t *testing.T) {
	f := newFixture(t)
	ingredient := f.seedRecipe(t, 1, 10)
	order := f.mixedOrder(t)

	// Dispatch and serve does not touch stock
	_, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)
	require.Equal(t, 10.0, f.reloadInventory(t, ingredient.ID).Quantity)

	_, err = f.orders.UpdateStatus(f.business.ID, order.ID, f.waiter.ID, models.OrderPaid)
	require.NoError(t, err)
	require.Equal(t, 9.0, f.reloadInventory(t, ingredient.ID).Quantity)

	// Re-asserting PAID must not deduct again
	_, err = f.orders.UpdateStatus(f.business.ID, order.ID, f.waiter.ID, models.OrderPaid)
	require.NoError(t, err)
	require.Equal(t, 9.0, f.reloadInventory(t, ingredient.ID).Quantity)
}

func TestLowStock_ListsAtOrBelowMinimum(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Create(&models.Inventory{
		BusinessID: f.business.ID, Name: "Lemons", Quantity: 1, MinStock: 5,
	}).Error)
	require.NoError(t, f.db.Create(&models.Inventory{
		BusinessID: f.business.ID, Name: "Olives", Quantity: 50, MinStock: 5,
	}).Error)

	recipes := NewRecipeService(f.db, zap.NewNop())
	low, err := recipes.LowStock(f.business.ID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Lemons", low[0].Name)
}
