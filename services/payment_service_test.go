package services

import (
	"testing"

	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/stretchr/testify/require"
)

func TestRecordPayment_FullAmountClosesOrder(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	payment, err := f.payments.Record(f.business.ID, order.ID, f.waiter.ID, RecordPaymentInput{
		Amount: 192, Method: models.PayCash,
	})
	require.NoError(t, err)
	require.Equal(t, 192.0, payment.Amount)
	require.Contains(t, payment.Reference, "PAY-")

	paid, err := f.orders.GetByID(f.business.ID, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	require.Equal(t, models.TableFree, f.reloadTable(t).Status)
	require.Len(t, f.notifier.Named(EventOrderPaid), 1)
	require.EqualValues(t, 1, f.logCount(t, order.ID, models.LogPaid))
}

func TestRecordPayment_SplitAcrossMethods(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.payments.Record(f.business.ID, order.ID, f.waiter.ID, RecordPaymentInput{
		Amount: 100, Method: models.PayCash,
	})
	require.NoError(t, err)

	open, err := f.orders.GetByID(f.business.ID, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderPending, open.Status)
	require.Empty(t, f.notifier.Named(EventOrderPaid))

	_, err = f.payments.Record(f.business.ID, order.ID, f.waiter.ID, RecordPaymentInput{
		Amount: 92, Method: models.PayCard, Reference: "POS-1234",
	})
	require.NoError(t, err)

	paid, err := f.orders.GetByID(f.business.ID, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderPaid, paid.Status)

	payments, err := f.payments.ListForOrder(f.business.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.Equal(t, "POS-1234", payments[1].Reference)
}

func TestRecordPayment_CreditsOpenShift(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	shift := models.CashShift{
		BusinessID:     f.business.ID,
		UserID:         f.waiter.ID,
		OpeningBalance: 500,
		IsOpen:         true,
		OpenedAt:       order.CreatedAt,
	}
	require.NoError(t, f.db.Create(&shift).Error)

	_, err := f.payments.Record(f.business.ID, order.ID, f.waiter.ID, RecordPaymentInput{
		Amount: 192, Method: models.PayCash,
	})
	require.NoError(t, err)

	require.NoError(t, f.db.First(&shift, "id = ?", shift.ID).Error)
	require.Equal(t, 192.0, shift.TotalSales)
}

func TestRecordPayment_RejectsClosedOrders(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.payments.Record(f.business.ID, order.ID, f.waiter.ID, RecordPaymentInput{
		Amount: 192, Method: models.PayCash,
	})
	require.NoError(t, err)

	_, err = f.payments.Record(f.business.ID, order.ID, f.waiter.ID, RecordPaymentInput{
		Amount: 10, Method: models.PayCash,
	})
	require.Error(t, err)
	require.Equal(t, utils.KindInvalidState, utils.KindOf(err))

	cancelled := f.secondOrder(t)
	_, err = f.orders.Cancel(f.business.ID, cancelled.ID, f.waiter.ID)
	require.NoError(t, err)

	_, err = f.payments.Record(f.business.ID, cancelled.ID, f.waiter.ID, RecordPaymentInput{
		Amount: 50, Method: models.PayCash,
	})
	require.Error(t, err)
	require.Equal(t, utils.KindInvalidState, utils.KindOf(err))
}

func TestRecordPayment_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.payments.Record(f.business.ID, order.ID, f.waiter.ID, RecordPaymentInput{
		Amount: 192, Method: "BARTER",
	})
	require.Error(t, err)
	require.Equal(t, utils.KindInvalidState, utils.KindOf(err))

	_, err = f.payments.Record(f.business.ID, order.ID, f.waiter.ID, RecordPaymentInput{
		Amount: -5, Method: models.PayCash,
	})
	require.Error(t, err)
	require.Equal(t, utils.KindInvalidState, utils.KindOf(err))
}

// secondOrder opens an extra table and creates a drink-only order on it.
func (f *fixture) secondOrder(t *testing.T) *models.Order {
	t.Helper()
	table := models.Table{BusinessID: f.business.ID, Number: 2, Capacity: 2, Status: models.TableFree}
	require.NoError(t, f.db.Create(&table).Error)

	order, err := f.orders.Create(f.business.ID, f.waiter.ID, CreateOrderInput{
		TableID: table.ID,
		Items:   []OrderItemInput{{ProductID: f.drink.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	return order
}
