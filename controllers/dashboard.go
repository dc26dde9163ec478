// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
)

type TopProduct struct {
	Name    string  `json:"name"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// GetDashboardOverview aggregates today's figures for the admin screen.
func GetDashboardOverview(c *gin.Context) {
	bizID, ok := businessID(c)
	if !ok {
		return
	}

	dayStart := utils.BeginningOfDay(time.Now())

	// Today's revenue, paid orders only
	var todayRevenue float64
	config.DB.Model(&models.Order{}).
		Where("business_id = ? AND status = ? AND paid_at >= ?", bizID, models.OrderPaid, dayStart).
		Select("COALESCE(SUM(total), 0)").Scan(&todayRevenue)

	var todayOrders int64
	config.DB.Model(&models.Order{}).
		Where("business_id = ? AND created_at >= ? AND status <> ?",
			bizID, dayStart, models.OrderCancelled).
		Count(&todayOrders)

	var openOrders int64
	config.DB.Model(&models.Order{}).
		Where("business_id = ? AND status IN ?", bizID,
			[]string{models.OrderPending, models.OrderPreparing, models.OrderReady, models.OrderServed}).
		Count(&openOrders)

	var totalTables, occupiedTables int64
	config.DB.Model(&models.Table{}).Where("business_id = ?", bizID).Count(&totalTables)
	config.DB.Model(&models.Table{}).
		Where("business_id = ? AND status = ?", bizID, models.TableOccupied).
		Count(&occupiedTables)

	// Top products today by quantity sold on paid orders
	var topProducts []TopProduct
	config.DB.Raw(`
        SELECT p.name, SUM(oi.quantity) AS sold, SUM(oi.subtotal) AS revenue
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        JOIN products p ON p.id = oi.product_id
        WHERE o.business_id = ? AND o.status = ? AND o.paid_at >= ?
          AND oi.deleted_at IS NULL AND o.deleted_at IS NULL
        GROUP BY p.name
        ORDER BY sold DESC
        LIMIT 5
    `, bizID, models.OrderPaid, dayStart).Scan(&topProducts)

	var lowStockCount int64
	config.DB.Model(&models.Inventory{}).
		Where("business_id = ? AND quantity <= min_stock", bizID).
		Count(&lowStockCount)

	var openShifts int64
	config.DB.Model(&models.CashShift{}).
		Where("business_id = ? AND is_open = ?", bizID, true).
		Count(&openShifts)

	c.JSON(http.StatusOK, gin.H{
		"todayRevenue": todayRevenue,
		"todayOrders":  todayOrders,
		"openOrders":   openOrders,
		"tables": gin.H{
			"total":    totalTables,
			"occupied": occupiedTables,
		},
		"topProducts":   topProducts,
		"lowStockCount": lowStockCount,
		"openShifts":    openShifts,
	})
}
