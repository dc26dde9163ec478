package services

import (
	"fmt"
	"testing"

	"restopos-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Business{},
		&models.License{},
		&models.User{},
		&models.Table{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderLog{},
		&models.Payment{},
		&models.CashShift{},
		&models.Inventory{},
		&models.Recipe{},
		&models.RecipeItem{},
		&models.StockAlert{},
	))
	return db
}

// fixture is one tenant with a waiter, a supervisor, a free table and
// one product per station, matching the worked example: FOOD at 100,
// DRINK at 50, tax 18%, tip 10%.
type fixture struct {
	db         *gorm.DB
	notifier   *RecorderNotifier
	orders     *OrderService
	payments   *PaymentService
	business   models.Business
	waiter     models.User
	supervisor models.User
	table      models.Table
	food       models.Product
	drink      models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	notifier := &RecorderNotifier{}
	log := zap.NewNop()
	orders := NewOrderService(db, notifier, log)

	f := &fixture{
		db:       db,
		notifier: notifier,
		orders:   orders,
		payments: NewPaymentService(db, orders, notifier, log),
	}

	f.business = models.Business{Name: "La Terraza", TaxRate: 18, TipRate: 10}
	require.NoError(t, db.Create(&f.business).Error)

	f.waiter = models.User{
		BusinessID: f.business.ID,
		Email:      "waiter@laterraza.test",
		Password:   "secret-password",
		Name:       "Ana",
		Role:       models.RoleWaiter,
	}
	require.NoError(t, db.Create(&f.waiter).Error)

	f.supervisor = models.User{
		BusinessID: f.business.ID,
		Email:      "supervisor@laterraza.test",
		Password:   "secret-password",
		Name:       "Luis",
		Role:       models.RoleSupervisor,
		PIN:        "4321",
	}
	require.NoError(t, db.Create(&f.supervisor).Error)

	f.table = models.Table{BusinessID: f.business.ID, Number: 1, Capacity: 4, Status: models.TableFree}
	require.NoError(t, db.Create(&f.table).Error)

	f.food = models.Product{
		BusinessID: f.business.ID, Name: "Paella", Price: 100,
		Type: models.ProductFood, IsActive: true,
	}
	require.NoError(t, db.Create(&f.food).Error)

	f.drink = models.Product{
		BusinessID: f.business.ID, Name: "Sangria", Price: 50,
		Type: models.ProductDrink, IsActive: true,
	}
	require.NoError(t, db.Create(&f.drink).Error)

	return f
}

// mixedOrder creates the standard one-food-one-drink order.
func (f *fixture) mixedOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.orders.Create(f.business.ID, f.waiter.ID, CreateOrderInput{
		TableID: f.table.ID,
		Items: []OrderItemInput{
			{ProductID: f.food.ID, Quantity: 1},
			{ProductID: f.drink.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) reloadTable(t *testing.T) models.Table {
	t.Helper()
	var table models.Table
	require.NoError(t, f.db.First(&table, "id = ?", f.table.ID).Error)
	return table
}

func (f *fixture) logCount(t *testing.T, orderID uuid.UUID, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.OrderLog{}).
		Where("order_id = ? AND action = ?", orderID, action).
		Count(&n).Error)
	return n
}
