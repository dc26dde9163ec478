// services/order_service.go
package services

import (
	"errors"
	"time"

	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService owns the order lifecycle: creation, pre-send edits,
// dispatch to kitchen/bar, per-item progress, closure and the station
// queue/summary queries. Every mutation runs in one transaction
// covering the order, its items, the table and the audit log.
type OrderService struct {
	db       *gorm.DB
	notifier Notifier
	log      *zap.Logger
}

func NewOrderService(db *gorm.DB, notifier Notifier, log *zap.Logger) *OrderService {
	return &OrderService{db: db, notifier: notifier, log: log}
}

type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Notes     string    `json:"notes"`
}

type CreateOrderInput struct {
	TableID uuid.UUID        `json:"tableId" binding:"required"`
	Items   []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type UpdateItemsInput struct {
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	SupervisorPIN string           `json:"supervisorPin"`
}

// Forward ranks for item statuses. Transitions are deliberately not
// enforced against this table (regressions pass through, as station
// screens correct mistakes by moving items back); it only feeds the
// regression warning and status validation.
var itemStatusRank = map[string]int{
	models.ItemPending:   0,
	models.ItemPreparing: 1,
	models.ItemReady:     2,
	models.ItemServed:    3,
}

var orderStatuses = map[string]bool{
	models.OrderPending:   true,
	models.OrderPreparing: true,
	models.OrderReady:     true,
	models.OrderServed:    true,
	models.OrderPaid:      true,
	models.OrderCancelled: true,
}

// Create opens a new order on a FREE or RESERVED table, snapshotting
// product prices and occupying the table atomically.
func (s *OrderService) Create(businessID, userID uuid.UUID, input CreateOrderInput) (*models.Order, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var table models.Table
	if err := tx.Where("business_id = ? AND id = ?", businessID, input.TableID).
		First(&table).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Table not found")
		}
		return nil, err
	}

	if table.Status != models.TableFree && table.Status != models.TableReserved {
		tx.Rollback()
		return nil, utils.InvalidState("Table is not available for a new order")
	}

	var business models.Business
	if err := tx.First(&business, "id = ?", businessID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Business not found")
		}
		return nil, err
	}

	items, subtotal, err := s.buildItems(tx, businessID, input.Items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	tax := utils.Round2(subtotal * business.TaxRate / 100)
	tip := utils.Round2(subtotal * business.TipRate / 100)

	order := models.Order{
		BusinessID: businessID,
		TableID:    table.ID,
		UserID:     userID,
		Number:     "ORD-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
		Status:     models.OrderPending,
		Subtotal:   subtotal,
		Tax:        tax,
		Tip:        tip,
		Total:      utils.Round2(subtotal + tax + tip),
		Items:      items,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.writeLog(tx, order.ID, userID, models.LogCreated, models.JSONB{
		"table": table.Number,
		"items": len(items),
		"total": order.Total,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&models.Table{}).Where("id = ?", table.ID).
		Updates(map[string]interface{}{
			"status":         models.TableOccupied,
			"reserved_by_id": nil,
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	hydrated, err := s.GetByID(businessID, order.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(businessID, EventOrderCreated, map[string]interface{}{
		"orderId": order.ID,
		"number":  order.Number,
		"table":   table.Number,
	})

	return hydrated, nil
}

// UpdateItems replaces the whole item list of a not-yet-closed order.
// Replacement is destructive: existing rows are deleted and recreated,
// so per-item progress is reset. Once anything has been dispatched the
// edit requires a supervisor PIN.
func (s *OrderService) UpdateItems(businessID, orderID, userID uuid.UUID, input UpdateItemsInput) (*models.Order, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Preload("Items").
		Where("business_id = ? AND id = ?", businessID, orderID).
		First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order not found")
		}
		return nil, err
	}

	if !order.Open() {
		tx.Rollback()
		return nil, utils.InvalidState("A paid or cancelled order cannot be modified")
	}

	dispatched := lo.SomeBy(order.Items, func(i models.OrderItem) bool { return i.Dispatched() })
	if dispatched {
		if input.SupervisorPIN == "" {
			tx.Rollback()
			return nil, utils.Unauthorized("Supervisor PIN required to edit a dispatched order")
		}
		if err := s.verifySupervisorPIN(tx, businessID, input.SupervisorPIN); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	var business models.Business
	if err := tx.First(&business, "id = ?", businessID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	items, subtotal, err := s.buildItems(tx, businessID, input.Items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := tx.Create(&items).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	tax := utils.Round2(subtotal * business.TaxRate / 100)
	tip := utils.Round2(subtotal * business.TipRate / 100)
	if err := tx.Model(&order).Updates(map[string]interface{}{
		"subtotal": subtotal,
		"tax":      tax,
		"tip":      tip,
		"total":    utils.Round2(subtotal + tax + tip),
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.writeLog(tx, order.ID, userID, models.LogItemsUpdated, models.JSONB{
		"items":      len(items),
		"supervised": dispatched,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetByID(businessID, order.ID)
}

// Send dispatches not-yet-sent items to their stations. Items already
// flagged are skipped, so repeated sends only dispatch additions and
// emit no duplicate notifications.
func (s *OrderService) Send(businessID, orderID, userID uuid.UUID) (*models.Order, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Preload("Items.Product").Preload("Table").
		Where("business_id = ? AND id = ?", businessID, orderID).
		First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order not found")
		}
		return nil, err
	}

	if !order.Open() {
		tx.Rollback()
		return nil, utils.InvalidState("A paid or cancelled order cannot be sent")
	}

	toKitchen := lo.Filter(order.Items, func(i models.OrderItem, _ int) bool {
		return i.Product != nil && i.Product.Type == models.ProductFood && !i.SentToKitchen
	})
	toBar := lo.Filter(order.Items, func(i models.OrderItem, _ int) bool {
		return i.Product != nil && i.Product.Type == models.ProductDrink && !i.SentToBar
	})

	if len(toKitchen) == 0 && len(toBar) == 0 {
		tx.Rollback()
		return s.GetByID(businessID, order.ID)
	}

	if len(toKitchen) > 0 {
		ids := lo.Map(toKitchen, func(i models.OrderItem, _ int) uuid.UUID { return i.ID })
		if err := tx.Model(&models.OrderItem{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"sent_to_kitchen": true,
				"status":          models.ItemPending,
			}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if len(toBar) > 0 {
		ids := lo.Map(toBar, func(i models.OrderItem, _ int) uuid.UUID { return i.ID })
		if err := tx.Model(&models.OrderItem{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"sent_to_bar": true,
				"status":      models.ItemPending,
			}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	now := time.Now()
	updates := map[string]interface{}{"sent_at": now}
	if order.Status == models.OrderPending {
		updates["status"] = models.OrderPreparing
	}
	if err := tx.Model(&order).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.writeLog(tx, order.ID, userID, models.LogOrderSent, models.JSONB{
		"kitchen": len(toKitchen),
		"bar":     len(toBar),
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	tableNumber := 0
	if order.Table != nil {
		tableNumber = order.Table.Number
	}
	if len(toKitchen) > 0 {
		s.notifier.Publish(businessID, EventKitchenItems, dispatchPayload(order, tableNumber, toKitchen, now))
	}
	if len(toBar) > 0 {
		s.notifier.Publish(businessID, EventBarItems, dispatchPayload(order, tableNumber, toBar, now))
	}

	return s.GetByID(businessID, order.ID)
}

func dispatchPayload(order models.Order, tableNumber int, items []models.OrderItem, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"orderId": order.ID,
		"number":  order.Number,
		"table":   tableNumber,
		"at":      at,
		"items": lo.Map(items, func(i models.OrderItem, _ int) map[string]interface{} {
			name := ""
			if i.Product != nil {
				name = i.Product.Name
			}
			return map[string]interface{}{
				"id":       i.ID,
				"product":  name,
				"quantity": i.Quantity,
				"notes":    i.Notes,
			}
		}),
	}
}

// UpdateItemStatus writes the item's new status and, when every item of
// the order has reached SERVED, derives the order-level SERVED
// transition exactly once.
func (s *OrderService) UpdateItemStatus(businessID, orderID, itemID, userID uuid.UUID, status string) (*models.Order, error) {
	if _, ok := itemStatusRank[status]; !ok {
		return nil, utils.InvalidState("Unknown item status: " + status)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Preload("Items.Product").
		Where("business_id = ? AND id = ?", businessID, orderID).
		First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order not found")
		}
		return nil, err
	}

	idx := -1
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		tx.Rollback()
		return nil, utils.NotFound("Order item not found")
	}
	item := &order.Items[idx]

	if itemStatusRank[status] < itemStatusRank[item.Status] {
		// Regressions are allowed; stations use them to undo mistakes.
		s.log.Warn("item status regression",
			zap.String("item", item.ID.String()),
			zap.String("from", item.Status),
			zap.String("to", status),
		)
	}

	if err := tx.Model(item).Update("status", status).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	item.Status = status

	productName := ""
	if item.Product != nil {
		productName = item.Product.Name
	}
	if err := s.writeLog(tx, order.ID, userID, models.LogItemStatusChanged, models.JSONB{
		"itemId":  item.ID,
		"status":  status,
		"product": productName,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	allServed := lo.EveryBy(order.Items, func(i models.OrderItem) bool {
		return i.Status == models.ItemServed
	})
	orderServed := false
	if allServed && order.Open() && order.Status != models.OrderServed {
		from := order.Status
		now := time.Now()
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":    models.OrderServed,
			"served_at": now,
		}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := s.writeLog(tx, order.ID, userID, models.LogStatusChanged, models.JSONB{
			"from": from,
			"to":   models.OrderServed,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
		orderServed = true
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.notifier.Publish(businessID, EventItemServed, map[string]interface{}{
		"orderId":     order.ID,
		"itemId":      item.ID,
		"status":      status,
		"product":     productName,
		"orderServed": orderServed,
	})

	return s.GetByID(businessID, order.ID)
}

// UpdateStatus overwrites the order status directly (cashier surface).
// SERVED stamps servedAt; PAID additionally frees the table, deducts
// recipe stock and emits the order-paid event. Payment recording calls
// this same path after covering the total.
func (s *OrderService) UpdateStatus(businessID, orderID, userID uuid.UUID, status string) (*models.Order, error) {
	if !orderStatuses[status] {
		return nil, utils.InvalidState("Unknown order status: " + status)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Preload("Items").
		Where("business_id = ? AND id = ?", businessID, orderID).
		First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order not found")
		}
		return nil, err
	}

	from := order.Status
	if err := s.transitionTx(tx, &order, userID, status); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if status == models.OrderPaid && from != models.OrderPaid {
		s.notifier.Publish(businessID, EventOrderPaid, map[string]interface{}{
			"orderId": order.ID,
			"tableId": order.TableID,
		})
	} else {
		s.notifier.Publish(businessID, EventStatusChanged, map[string]interface{}{
			"orderId": order.ID,
			"from":    from,
			"to":      status,
		})
	}

	return s.GetByID(businessID, order.ID)
}

// transitionTx applies a direct status change inside the caller's
// transaction, including the PAID cascade. The caller owns commit and
// the outbound notification.
func (s *OrderService) transitionTx(tx *gorm.DB, order *models.Order, userID uuid.UUID, status string) error {
	from := order.Status
	now := time.Now()

	updates := map[string]interface{}{"status": status}
	switch status {
	case models.OrderServed:
		updates["served_at"] = now
	case models.OrderPaid:
		updates["paid_at"] = now
	}
	if err := tx.Model(order).Updates(updates).Error; err != nil {
		return err
	}

	if err := s.writeLog(tx, order.ID, userID, models.LogStatusChanged, models.JSONB{
		"from": from,
		"to":   status,
	}); err != nil {
		return err
	}

	// PAID is the only status that cascades: the table is released
	// unconditionally and sold items consume recipe stock, once.
	if status == models.OrderPaid && from != models.OrderPaid {
		if err := tx.Model(&models.Table{}).Where("id = ?", order.TableID).
			Updates(map[string]interface{}{
				"status":         models.TableFree,
				"reserved_by_id": nil,
			}).Error; err != nil {
			return err
		}
		recipes := NewRecipeService(s.db, s.log)
		if err := recipes.DeductForOrderTx(tx, order); err != nil {
			return err
		}
	}
	order.Status = status
	return nil
}

// Cancel voids a not-yet-paid order and frees its table. Items keep
// whatever status they had; station screens drop the order on re-fetch.
func (s *OrderService) Cancel(businessID, orderID, userID uuid.UUID) (*models.Order, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Where("business_id = ? AND id = ?", businessID, orderID).
		First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order not found")
		}
		return nil, err
	}

	if order.Status == models.OrderPaid {
		tx.Rollback()
		return nil, utils.InvalidState("A paid order cannot be cancelled")
	}

	previous := order.Status
	if err := tx.Model(&order).Update("status", models.OrderCancelled).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.writeLog(tx, order.ID, userID, models.LogOrderCancelled, models.JSONB{
		"previousStatus": previous,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&models.Table{}).Where("id = ?", order.TableID).
		Updates(map[string]interface{}{
			"status":         models.TableFree,
			"reserved_by_id": nil,
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.notifier.Publish(businessID, EventOrderCancelled, map[string]interface{}{
		"orderId": order.ID,
		"tableId": order.TableID,
	})

	return s.GetByID(businessID, order.ID)
}

func (s *OrderService) GetByID(businessID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Product.Category").Preload("Table").Preload("User").
		Where("business_id = ? AND id = ?", businessID, orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order not found")
		}
		return nil, err
	}
	return &order, nil
}

// List returns the business's orders, optionally filtered by status.
func (s *OrderService) List(businessID uuid.UUID, status string) ([]models.Order, error) {
	var orders []models.Order
	q := s.db.Preload("Items.Product").Preload("Table").
		Where("business_id = ?", businessID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (s *OrderService) GetKitchenOrders(businessID uuid.UUID) ([]models.Order, error) {
	return s.stationOrders(businessID, models.ProductFood)
}

func (s *OrderService) GetBarOrders(businessID uuid.UUID) ([]models.Order, error) {
	return s.stationOrders(businessID, models.ProductDrink)
}

// stationOrders is the active queue for one station: PENDING/PREPARING
// orders with at least one dispatched, unfinished item of the station's
// product type. Items of the other type are stripped before returning,
// so mixed orders surface only their relevant lines per screen.
// PENDING sorts before PREPARING, oldest first within each.
func (s *OrderService) stationOrders(businessID uuid.UUID, productType string) ([]models.Order, error) {
	sentCol := "order_items.sent_to_kitchen"
	if productType == models.ProductDrink {
		sentCol = "order_items.sent_to_bar"
	}

	sub := s.db.Model(&models.OrderItem{}).
		Select("order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.type = ? AND "+sentCol+" = ?", productType, true).
		Where("order_items.status IN ?", []string{models.ItemPending, models.ItemPreparing})

	var orders []models.Order
	err := s.db.Preload("Items.Product").Preload("Table").
		Where("business_id = ? AND status IN ?", businessID,
			[]string{models.OrderPending, models.OrderPreparing}).
		Where("id IN (?)", sub).
		Order("status ASC, created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = lo.Filter(orders[i].Items, func(it models.OrderItem, _ int) bool {
			if it.Product == nil || it.Product.Type != productType {
				return false
			}
			if productType == models.ProductDrink {
				return it.SentToBar
			}
			return it.SentToKitchen
		})
	}
	return orders, nil
}

// StationWindowSummary counts orders for one time window.
type StationWindowSummary struct {
	Pending int `json:"pending"`
	Served  int `json:"served"`
}

// StationSummary pairs the since-midnight window with the window of the
// currently open cash shift (zeroed when no shift is open), so station
// staff see both daily load and shift throughput.
type StationSummary struct {
	Day   StationWindowSummary `json:"day"`
	Shift StationWindowSummary `json:"shift"`
}

func (s *OrderService) GetKitchenSummary(businessID uuid.UUID) (*StationSummary, error) {
	return s.stationSummary(businessID, models.ProductFood)
}

func (s *OrderService) GetBarSummary(businessID uuid.UUID) (*StationSummary, error) {
	return s.stationSummary(businessID, models.ProductDrink)
}

func (s *OrderService) stationSummary(businessID uuid.UUID, productType string) (*StationSummary, error) {
	day, err := s.stationWindow(businessID, productType, utils.BeginningOfDay(time.Now()))
	if err != nil {
		return nil, err
	}

	summary := &StationSummary{Day: *day}

	var shift models.CashShift
	err = s.db.Where("business_id = ? AND is_open = ?", businessID, true).
		Order("opened_at DESC").
		First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return summary, nil // no open shift, shift window stays zeroed
		}
		return nil, err
	}

	shiftWindow, err := s.stationWindow(businessID, productType, shift.OpenedAt)
	if err != nil {
		return nil, err
	}
	summary.Shift = *shiftWindow
	return summary, nil
}

func (s *OrderService) stationWindow(businessID uuid.UUID, productType string, since time.Time) (*StationWindowSummary, error) {
	var orders []models.Order
	err := s.db.Preload("Items.Product").
		Where("business_id = ? AND created_at >= ? AND status <> ?",
			businessID, since, models.OrderCancelled).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	window := &StationWindowSummary{}
	for _, order := range orders {
		matching := lo.Filter(order.Items, func(i models.OrderItem, _ int) bool {
			return i.Product != nil && i.Product.Type == productType
		})
		if len(matching) == 0 {
			continue
		}
		done := lo.EveryBy(matching, func(i models.OrderItem) bool {
			return i.Dispatched() && i.Status == models.ItemServed
		})
		if done {
			window.Served++
		} else {
			window.Pending++
		}
	}
	return window, nil
}

// GetServedOrders lists SERVED orders awaiting payment.
func (s *OrderService) GetServedOrders(businessID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.Product").Preload("Table").
		Where("business_id = ? AND status = ?", businessID, models.OrderServed).
		Order("served_at ASC").
		Find(&orders).Error
	return orders, err
}

// buildItems validates the product of every requested line against the
// tenant and snapshots current prices into new OrderItem rows.
func (s *OrderService) buildItems(tx *gorm.DB, businessID uuid.UUID, inputs []OrderItemInput) ([]models.OrderItem, float64, error) {
	var items []models.OrderItem
	var subtotal float64

	for _, in := range inputs {
		var product models.Product
		if err := tx.Where("business_id = ? AND id = ? AND is_active = ?",
			businessID, in.ProductID, true).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, utils.NotFound("Product not found: " + in.ProductID.String())
			}
			return nil, 0, err
		}

		lineTotal := utils.Round2(product.Price * float64(in.Quantity))
		subtotal = utils.Round2(subtotal + lineTotal)

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  in.Quantity,
			Price:     product.Price,
			Subtotal:  lineTotal,
			Notes:     in.Notes,
			Status:    models.ItemPending,
		})
	}
	return items, subtotal, nil
}

// verifySupervisorPIN matches the PIN against an active ADMIN or
// SUPERVISOR of the same business.
func (s *OrderService) verifySupervisorPIN(tx *gorm.DB, businessID uuid.UUID, pin string) error {
	if !utils.ValidatePIN(pin) {
		return utils.Unauthorized("Supervisor PIN required to edit a dispatched order")
	}
	var supervisor models.User
	err := tx.Where("business_id = ? AND pin = ? AND is_active = ? AND role IN ?",
		businessID, pin, true, []string{models.RoleAdmin, models.RoleSupervisor}).
		First(&supervisor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized("Invalid supervisor PIN")
		}
		return err
	}
	return nil
}

func (s *OrderService) writeLog(tx *gorm.DB, orderID, userID uuid.UUID, action string, details models.JSONB) error {
	return tx.Create(&models.OrderLog{
		OrderID: orderID,
		UserID:  userID,
		Action:  action,
		Details: details,
	}).Error
}
