// services/payment_service.go
package services

import (
	"errors"
	"time"

	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService records payments against orders and closes an order
// through the shared PAID transition once payments cover the total.
// Split and mixed payment is several Record calls against one order.
type PaymentService struct {
	db       *gorm.DB
	orders   *OrderService
	notifier Notifier
	log      *zap.Logger
}

func NewPaymentService(db *gorm.DB, orders *OrderService, notifier Notifier, log *zap.Logger) *PaymentService {
	return &PaymentService{db: db, orders: orders, notifier: notifier, log: log}
}

var paymentMethods = map[string]bool{
	models.PayCash:     true,
	models.PayCard:     true,
	models.PayTransfer: true,
	models.PayMixed:    true,
}

type RecordPaymentInput struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Method    string  `json:"method" binding:"required"`
	Reference string  `json:"reference"`
}

// Record stores one payment. When cumulative payments reach the order
// total the order is closed in the same transaction: status PAID,
// table freed, stock deducted, the cashier's open shift credited.
func (s *PaymentService) Record(businessID, orderID, userID uuid.UUID, input RecordPaymentInput) (*models.Payment, error) {
	if !paymentMethods[input.Method] {
		return nil, utils.InvalidState("Unknown payment method: " + input.Method)
	}
	if input.Amount <= 0 {
		return nil, utils.InvalidState("Payment amount must be positive")
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

	if order.Status == models.OrderCancelled {
		tx.Rollback()
		return nil, utils.InvalidState("A cancelled order cannot be paid")
	}
	if order.Status == models.OrderPaid {
		tx.Rollback()
		return nil, utils.InvalidState("Order is already paid")
	}

	reference := input.Reference
	if reference == "" {
		reference = "PAY-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
	}

	payment := models.Payment{
		BusinessID: businessID,
		OrderID:    order.ID,
		UserID:     userID,
		Amount:     utils.Round2(input.Amount),
		Method:     input.Method,
		Reference:  reference,
		PaidAt:     time.Now(),
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.orders.writeLog(tx, order.ID, userID, models.LogPaid, models.JSONB{
		"paymentId": payment.ID,
		"amount":    payment.Amount,
		"method":    payment.Method,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Credit the cashier's open register session, if any.
	if err := tx.Model(&models.CashShift{}).
		Where("business_id = ? AND user_id = ? AND is_open = ?", businessID, userID, true).
		Update("total_sales", gorm.Expr("total_sales + ?", payment.Amount)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var paid float64
	if err := tx.Model(&models.Payment{}).
		Where("order_id = ?", order.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	closed := paid >= order.Total-0.005 // rounding tolerance
	if closed {
		if err := s.orders.transitionTx(tx, &order, userID, models.OrderPaid); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if closed {
		s.notifier.Publish(businessID, EventOrderPaid, map[string]interface{}{
			"orderId": order.ID,
			"tableId": order.TableID,
		})
	}

	return &payment, nil
}

// ListForOrder returns the payments recorded against one order.
func (s *PaymentService) ListForOrder(businessID, orderID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("business_id = ? AND order_id = ?", businessID, orderID).
		Order("paid_at ASC").
		Find(&payments).Error
	return payments, err
}
