package services

import (
	"testing"
	"time"

	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestCreateOrder_TotalsAndTableOccupied(t *testing.T) {
	f := newFixture(t)

	order := f.mixedOrder(t)

	require.Equal(t, 150.0, order.Subtotal)
	require.Equal(t, 27.0, order.Tax)
	require.Equal(t, 15.0, order.Tip)
	require.Equal(t, 192.0, order.Total)
	require.InDelta(t, order.Subtotal+order.Tax+order.Tip, order.Total, 0.001)
	require.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		require.Equal(t, models.ItemPending, item.Status)
		require.False(t, item.SentToKitchen)
		require.False(t, item.SentToBar)
	}

	require.Equal(t, models.TableOccupied, f.reloadTable(t).Status)
	require.EqualValues(t, 1, f.logCount(t, order.ID, models.LogCreated))
}

func TestCreateOrder_PriceIsSnapshot(t *testing.T) {
	f := newFixture(t)

	order := f.mixedOrder(t)

	// A later menu price change must not touch the recorded line
	require.NoError(t, f.db.Model(&f.food).Update("price", 999.0).Error)

	reloaded, err := f.orders.GetByID(f.business.ID, order.ID)
	require.NoError(t, err)
	require.Equal(t, 150.0, reloaded.Subtotal)
}

func TestCreateOrder_TableUnavailable(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Model(&f.table).Update("status", models.TableOccupied).Error)

	_, err := f.orders.Create(f.business.ID, f.waiter.ID, CreateOrderInput{
		TableID: f.table.ID,
		Items:   []OrderItemInput{{ProductID: f.food.ID, Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, utils.KindInvalidState, utils.KindOf(err))
}

func TestCreateOrder_ReservedTableAllowed(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Model(&f.table).Updates(map[string]interface{}{
		"status":         models.TableReserved,
		"reserved_by_id": f.waiter.ID,
	}).Error)

	_, err := f.orders.Create(f.business.ID, f.waiter.ID, CreateOrderInput{
		TableID: f.table.ID,
		Items:   []OrderItemInput{{ProductID: f.food.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	table := f.reloadTable(t)
	require.Equal(t, models.TableOccupied, table.Status)
	require.Nil(t, table.ReservedByID)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Create(f.business.ID, f.waiter.ID, CreateOrderInput{
		TableID: f.table.ID,
		Items:   []OrderItemInput{{ProductID: f.supervisor.ID, Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestSendOrder_DispatchesBothStations(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	sent, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	require.Equal(t, models.OrderPreparing, sent.Status)
	require.NotNil(t, sent.SentAt)
	for _, item := range sent.Items {
		switch item.Product.Type {
		case models.ProductFood:
			require.True(t, item.SentToKitchen)
			require.False(t, item.SentToBar)
		case models.ProductDrink:
			require.True(t, item.SentToBar)
			require.False(t, item.SentToKitchen)
		}
	}

	kitchenEvents := f.notifier.Named(EventKitchenItems)
	barEvents := f.notifier.Named(EventBarItems)
	require.Len(t, kitchenEvents, 1)
	require.Len(t, barEvents, 1)

	payload := kitchenEvents[0].Payload
	require.EqualValues(t, 1, gjson.GetBytes(payload, "table").Int())
	require.EqualValues(t, 1, gjson.GetBytes(payload, "items.#").Int())
	require.Equal(t, "Paella", gjson.GetBytes(payload, "items.0.product").String())

	require.EqualValues(t, 1, f.logCount(t, order.ID, models.LogOrderSent))
}

func TestSendOrder_IdempotentForDispatchedItems(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	// Second send with nothing new: no re-flag, no events, no log
	_, err = f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	require.Len(t, f.notifier.Named(EventKitchenItems), 1)
	require.Len(t, f.notifier.Named(EventBarItems), 1)
	require.EqualValues(t, 1, f.logCount(t, order.ID, models.LogOrderSent))
}

func TestSendOrder_OnlyNewItemsDispatched(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	// Add a second drink through a supervised edit, then resend
	_, err = f.orders.UpdateItems(f.business.ID, order.ID, f.waiter.ID, UpdateItemsInput{
		Items: []OrderItemInput{
			{ProductID: f.food.ID, Quantity: 1},
			{ProductID: f.drink.ID, Quantity: 2},
		},
		SupervisorPIN: "4321",
	})
	require.NoError(t, err)

	_, err = f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	// Replacement reset the items, so both stations were notified again
	require.Len(t, f.notifier.Named(EventKitchenItems), 2)
	require.Len(t, f.notifier.Named(EventBarItems), 2)
}

func TestUpdateItems_RecomputesTotals(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	updated, err := f.orders.UpdateItems(f.business.ID, order.ID, f.waiter.ID, UpdateItemsInput{
		Items: []OrderItemInput{{ProductID: f.drink.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	require.Equal(t, 100.0, updated.Subtotal)
	require.Equal(t, 18.0, updated.Tax)
	require.Equal(t, 10.0, updated.Tip)
	require.Equal(t, 128.0, updated.Total)
	require.EqualValues(t, 1, f.logCount(t, order.ID, models.LogItemsUpdated))
}

func TestUpdateItems_SupervisorGateAfterDispatch(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	newItems := []OrderItemInput{{ProductID: f.food.ID, Quantity: 2}}

	_, err = f.orders.UpdateItems(f.business.ID, order.ID, f.waiter.ID, UpdateItemsInput{Items: newItems})
	require.Error(t, err)
	require.Equal(t, utils.KindUnauthorized, utils.KindOf(err))

	_, err = f.orders.UpdateItems(f.business.ID, order.ID, f.waiter.ID, UpdateItemsInput{
		Items:         newItems,
		SupervisorPIN: "0000",
	})
	require.Error(t, err)
	require.Equal(t, utils.KindUnauthorized, utils.KindOf(err))

	updated, err := f.orders.UpdateItems(f.business.ID, order.ID, f.waiter.ID, UpdateItemsInput{
		Items:         newItems,
		SupervisorPIN: "4321",
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	// Replacement is destructive: the new line starts over, unsent
	require.Equal(t, models.ItemPending, updated.Items[0].Status)
	require.False(t, updated.Items[0].SentToKitchen)
}

func TestUpdateItems_LockedWhenClosed(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.orders.UpdateStatus(f.business.ID, order.ID, f.waiter.ID, models.OrderPaid)
	require.NoError(t, err)

	_, err = f.orders.UpdateItems(f.business.ID, order.ID, f.waiter.ID, UpdateItemsInput{
		Items: []OrderItemInput{{ProductID: f.food.ID, Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, utils.KindInvalidState, utils.KindOf(err))
}

func TestItemStatus_DerivesOrderServedOnce(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)
	sent, err := f.orders.GetByID(f.business.ID, order.ID)
	require.NoError(t, err)

	first, err := f.orders.UpdateItemStatus(f.business.ID, order.ID, sent.Items[0].ID, f.waiter.ID, models.ItemServed)
	require.NoError(t, err)
	require.Equal(t, models.OrderPreparing, first.Status)

	second, err := f.orders.UpdateItemStatus(f.business.ID, order.ID, sent.Items[1].ID, f.waiter.ID, models.ItemServed)
	require.NoError(t, err)
	require.Equal(t, models.OrderServed, second.Status)
	require.NotNil(t, second.ServedAt)

	events := f.notifier.Named(EventItemServed)
	require.Len(t, events, 2)
	require.False(t, gjson.GetBytes(events[0].Payload, "orderServed").Bool())
	require.True(t, gjson.GetBytes(events[1].Payload, "orderServed").Bool())

	// Re-serving an already served item must not re-derive
	_, err = f.orders.UpdateItemStatus(f.business.ID, order.ID, sent.Items[1].ID, f.waiter.ID, models.ItemServed)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.logCount(t, order.ID, models.LogStatusChanged))
}

func TestItemStatus_SkipForwardAndUnknown(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	// PENDING can jump straight to SERVED
	updated, err := f.orders.UpdateItemStatus(f.business.ID, order.ID, order.Items[0].ID, f.waiter.ID, models.ItemServed)
	require.NoError(t, err)
	for _, item := range updated.Items {
		if item.ID == order.Items[0].ID {
			require.Equal(t, models.ItemServed, item.Status)
		}
	}

	_, err = f.orders.UpdateItemStatus(f.business.ID, order.ID, order.Items[0].ID, f.waiter.ID, "EATEN")
	require.Error(t, err)
	require.Equal(t, utils.KindInvalidState, utils.KindOf(err))
}

func TestUpdateStatus_PaidCascadesTableFree(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	paid, err := f.orders.UpdateStatus(f.business.ID, order.ID, f.waiter.ID, models.OrderPaid)
	require.NoError(t, err)
	require.Equal(t, models.OrderPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	require.Equal(t, models.TableFree, f.reloadTable(t).Status)
	require.Len(t, f.notifier.Named(EventOrderPaid), 1)
}

func TestCancel_FreesTableAndLogsPreviousStatus(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	cancelled, err := f.orders.Cancel(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderCancelled, cancelled.Status)

	table := f.reloadTable(t)
	require.Equal(t, models.TableFree, table.Status)
	require.Nil(t, table.ReservedByID)

	var logEntry models.OrderLog
	require.NoError(t, f.db.Where("order_id = ? AND action = ?", order.ID, models.LogOrderCancelled).
		First(&logEntry).Error)
	require.Equal(t, models.OrderPreparing, logEntry.Details["previousStatus"])
}

func TestCancel_RejectedWhenPaid(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.orders.UpdateStatus(f.business.ID, order.ID, f.waiter.ID, models.OrderPaid)
	require.NoError(t, err)

	_, err = f.orders.Cancel(f.business.ID, order.ID, f.waiter.ID)
	require.Error(t, err)
	require.Equal(t, utils.KindInvalidState, utils.KindOf(err))
}

func TestStationQueues_FilterByTypeAndDispatch(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	// Nothing dispatched yet: both queues empty
	kitchen, err := f.orders.GetKitchenOrders(f.business.ID)
	require.NoError(t, err)
	require.Empty(t, kitchen)

	_, err = f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	kitchen, err = f.orders.GetKitchenOrders(f.business.ID)
	require.NoError(t, err)
	require.Len(t, kitchen, 1)
	require.Len(t, kitchen[0].Items, 1)
	require.Equal(t, models.ProductFood, kitchen[0].Items[0].Product.Type)

	bar, err := f.orders.GetBarOrders(f.business.ID)
	require.NoError(t, err)
	require.Len(t, bar, 1)
	require.Len(t, bar[0].Items, 1)
	require.Equal(t, models.ProductDrink, bar[0].Items[0].Product.Type)
}

func TestStationQueues_DropServedItems(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	_, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)
	sent, err := f.orders.GetByID(f.business.ID, order.ID)
	require.NoError(t, err)

	for _, item := range sent.Items {
		_, err = f.orders.UpdateItemStatus(f.business.ID, order.ID, item.ID, f.waiter.ID, models.ItemServed)
		require.NoError(t, err)
	}

	// Fully served order leaves the active queues
	kitchen, err := f.orders.GetKitchenOrders(f.business.ID)
	require.NoError(t, err)
	require.Empty(t, kitchen)
}

func TestStationSummary_DayAndShiftWindows(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)
	_, err := f.orders.Send(f.business.ID, order.ID, f.waiter.ID)
	require.NoError(t, err)

	// No open shift: shift window zeroed, day window counts the order
	summary, err := f.orders.GetKitchenSummary(f.business.ID)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Day.Pending)
	require.Equal(t, 0, summary.Day.Served)
	require.Equal(t, 0, summary.Shift.Pending)
	require.Equal(t, 0, summary.Shift.Served)

	// Open a shift predating the order: shift window now matches
	shift := models.CashShift{
		BusinessID:     f.business.ID,
		UserID:         f.waiter.ID,
		OpeningBalance: 100,
		IsOpen:         true,
		OpenedAt:       order.CreatedAt.Add(-time.Minute),
	}
	require.NoError(t, f.db.Create(&shift).Error)

	sent, err := f.orders.GetByID(f.business.ID, order.ID)
	require.NoError(t, err)
	for _, item := range sent.Items {
		_, err = f.orders.UpdateItemStatus(f.business.ID, order.ID, item.ID, f.waiter.ID, models.ItemServed)
		require.NoError(t, err)
	}

	summary, err = f.orders.GetKitchenSummary(f.business.ID)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Day.Pending)
	require.Equal(t, 1, summary.Day.Served)
	require.Equal(t, 1, summary.Shift.Served)
}

func TestTenantScoping_OrdersInvisibleAcrossBusinesses(t *testing.T) {
	f := newFixture(t)
	order := f.mixedOrder(t)

	other := models.Business{Name: "El Otro", TaxRate: 10, TipRate: 0}
	require.NoError(t, f.db.Create(&other).Error)

	_, err := f.orders.GetByID(other.ID, order.ID)
	require.Error(t, err)
	require.Equal(t, utils.KindNotFound, utils.KindOf(err))

	orders, err := f.orders.List(other.ID, "")
	require.NoError(t, err)
	require.Empty(t, orders)
}
