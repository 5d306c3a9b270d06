package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"gorm.io/gorm"
)

func newOrderFixture(t *testing.T) (*gorm.DB, *OrderService, *docstore.MemoryHistoryStore, *recordingPublisher) {
	db := setupTestDB(t)
	history := docstore.NewMemoryHistoryStore()
	events := &recordingPublisher{}
	return db, NewOrderService(db, history, events), history, events
}

func uintPtr(v uint) *uint { return &v }

func TestCreateOrderPricesLinesAndOccupiesTable(t *testing.T) {
	db, svc, history, events := newOrderFixture(t)
	ctx := context.Background()

	customer := seedCustomer(t, db, "ana@example.com")
	table := seedTable(t, db, 4)
	soup := seedDish(t, db, "Sopa de tortilla", 10.00, 4.00, true)
	flan := seedDish(t, db, "Flan", 5.00, 1.50, true)

	order, err := svc.Create(ctx, CreateOrderInput{
		CustomerID: uintPtr(customer.ID),
		TableID:    uintPtr(table.ID),
		Items: []OrderItemInput{
			{DishID: soup.ID, Quantity: 2},
			{DishID: flan.ID, Quantity: 1, Notes: "sin caramelo"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 25.00, order.Total)
	assert.Equal(t, 9.50, order.TotalCost)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.OrderDineIn, order.Type)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 20.00, order.Lines[0].Subtotal)
	assert.Equal(t, "Sopa de tortilla", order.Lines[0].Dish.Name)
	assert.Equal(t, "sin caramelo", order.Lines[1].Notes)
	require.NotNil(t, order.Customer)
	require.NotNil(t, order.Table)
	assert.Equal(t, models.TableOccupied, order.Table.Status)
	assert.Equal(t, models.TableOccupied, tableStatus(t, db, table.ID))

	snap, err := history.FindByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.00, snap.Total)
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, "Flan", snap.Lines[1].DishName)

	var pending int64
	db.Model(&models.OutboxEvent{}).Where("processed = ?", false).Count(&pending)
	assert.Zero(t, pending)
	assert.Equal(t, []string{EventOrderCreated}, events.types())
}

func TestCreateOrderTakeoutLeavesTableFree(t *testing.T) {
	db, svc, _, _ := newOrderFixture(t)
	table := seedTable(t, db, 2)
	dish := seedDish(t, db, "Tacos", 8.00, 3.00, true)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		TableID: uintPtr(table.ID),
		Type:    models.OrderTakeout,
		Items:   []OrderItemInput{{DishID: dish.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 24.00, order.Total)
	assert.Nil(t, order.Customer)
	assert.Equal(t, models.TableAvailable, tableStatus(t, db, table.ID))
}

func TestCreateOrderValidation(t *testing.T) {
	db, svc, _, _ := newOrderFixture(t)
	dish := seedDish(t, db, "Tacos", 8.00, 3.00, true)

	tests := []struct {
		name string
		in   CreateOrderInput
		kind ErrorKind
	}{
		{"no items", CreateOrderInput{}, KindInvalidArgument},
		{"zero quantity", CreateOrderInput{Items: []OrderItemInput{{DishID: dish.ID, Quantity: 0}}}, KindInvalidArgument},
		{"bad type", CreateOrderInput{Type: "drive_thru", Items: []OrderItemInput{{DishID: dish.ID, Quantity: 1}}}, KindInvalidArgument},
		{"unknown customer", CreateOrderInput{CustomerID: uintPtr(99), Items: []OrderItemInput{{DishID: dish.ID, Quantity: 1}}}, KindNotFound},
		{"unknown table", CreateOrderInput{TableID: uintPtr(99), Items: []OrderItemInput{{DishID: dish.ID, Quantity: 1}}}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
	assert.Zero(t, countRows(t, db, &models.Order{}))
}

func TestCreateOrderOnOccupiedTableWritesNothing(t *testing.T) {
	db, svc, _, events := newOrderFixture(t)
	table := seedTable(t, db, 4)
	dish := seedDish(t, db, "Pozole", 12.00, 5.00, true)
	require.NoError(t, db.Model(&table).Update("estado", models.TableOccupied).Error)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		TableID: uintPtr(table.ID),
		Items:   []OrderItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Zero(t, countRows(t, db, &models.Order{}))
	assert.Zero(t, countRows(t, db, &models.OrderLine{}))
	assert.Zero(t, countRows(t, db, &models.OutboxEvent{}))
	assert.Empty(t, events.types())
}

func TestCreateOrderMissingDishWritesNothing(t *testing.T) {
	db, svc, _, _ := newOrderFixture(t)
	table := seedTable(t, db, 4)
	dish := seedDish(t, db, "Pozole", 12.00, 5.00, true)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		TableID: uintPtr(table.ID),
		Items: []OrderItemInput{
			{DishID: dish.ID, Quantity: 1},
			{DishID: 404, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Contains(t, err.Error(), "404")
	assert.Zero(t, countRows(t, db, &models.Order{}))
	assert.Equal(t, models.TableAvailable, tableStatus(t, db, table.ID))
}

func TestCreateOrderUnavailableDish(t *testing.T) {
	db, svc, _, _ := newOrderFixture(t)
	dish := seedDish(t, db, "Mole", 15.00, 6.00, false)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		Type:  models.OrderDelivery,
		Items: []OrderItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), "Mole")
	assert.Zero(t, countRows(t, db, &models.Order{}))
}

func TestChangeStatusFreesTableOnlyWhenFinished(t *testing.T) {
	for _, final := range []models.OrderStatus{models.OrderDelivered, models.OrderCanceled} {
		t.Run(string(final), func(t *testing.T) {
			db, svc, history, _ := newOrderFixture(t)
			ctx := context.Background()
			table := seedTable(t, db, 4)
			dish := seedDish(t, db, "Enchiladas", 9.00, 3.00, true)

			order, err := svc.Create(ctx, CreateOrderInput{
				TableID: uintPtr(table.ID),
				Items:   []OrderItemInput{{DishID: dish.ID, Quantity: 1}},
			})
			require.NoError(t, err)

			for _, s := range []models.OrderStatus{models.OrderPreparing, models.OrderReady} {
				_, err := svc.ChangeStatus(ctx, order.ID, s)
				require.NoError(t, err)
				assert.Equal(t, models.TableOccupied, tableStatus(t, db, table.ID), "after %s", s)
			}

			updated, err := svc.ChangeStatus(ctx, order.ID, final)
			require.NoError(t, err)
			assert.Equal(t, final, updated.Status)
			assert.Equal(t, models.TableAvailable, tableStatus(t, db, table.ID))

			snap, err := history.FindByOrder(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, final, snap.Status)
		})
	}
}

func TestChangeStatusSameStatusIsNoop(t *testing.T) {
	db, svc, _, events := newOrderFixture(t)
	ctx := context.Background()
	dish := seedDish(t, db, "Tamales", 6.00, 2.00, true)

	order, err := svc.Create(ctx, CreateOrderInput{
		Type:  models.OrderTakeout,
		Items: []OrderItemInput{{DishID: dish.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	outboxBefore := countRows(t, db, &models.OutboxEvent{})

	again, err := svc.ChangeStatus(ctx, order.ID, models.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, again.Status)
	assert.True(t, order.UpdatedAt.Equal(again.UpdatedAt))
	assert.Equal(t, outboxBefore, countRows(t, db, &models.OutboxEvent{}))
	assert.Equal(t, []string{EventOrderCreated}, events.types())
}

func TestChangeStatusErrors(t *testing.T) {
	_, svc, _, _ := newOrderFixture(t)

	_, err := svc.ChangeStatus(context.Background(), 1, "servido")
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = svc.ChangeStatus(context.Background(), 77, models.OrderReady)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestHistoryOutageDoesNotFailOrders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	mem := docstore.NewMemoryHistoryStore()
	history := &brokenHistory{HistoryStore: mem, broken: true}
	svc := NewOrderService(db, history, nil)
	dish := seedDish(t, db, "Chilaquiles", 7.50, 2.50, true)

	order, err := svc.Create(ctx, CreateOrderInput{
		Type:  models.OrderTakeout,
		Items: []OrderItemInput{{DishID: dish.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 15.00, order.Total)

	_, err = svc.ChangeStatus(ctx, order.ID, models.OrderReady)
	require.NoError(t, err)

	var pending []models.OutboxEvent
	require.NoError(t, db.Where("processed = ?", false).Order("id").Find(&pending).Error)
	require.Len(t, pending, 2)
	assert.Equal(t, models.TopicHistoryCreate, pending[0].Topic)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Contains(t, pending[0].LastError, "unreachable")

	history.heal()
	delivered, err := svc.Relay.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	snap, err := mem.FindByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, snap.Status)
	assert.Equal(t, "Chilaquiles", snap.Lines[0].DishName)
}

func TestListOrdersFilters(t *testing.T) {
	db, svc, _, _ := newOrderFixture(t)
	ctx := context.Background()
	customer := seedCustomer(t, db, "luis@example.com")
	dish := seedDish(t, db, "Sopes", 4.00, 1.00, true)

	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return day }
	first, err := svc.Create(ctx, CreateOrderInput{
		CustomerID: uintPtr(customer.ID),
		Type:       models.OrderTakeout,
		Items:      []OrderItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	svc.Now = func() time.Time { return day.AddDate(0, 0, 1) }
	second, err := svc.Create(ctx, CreateOrderInput{
		Type:  models.OrderDelivery,
		Items: []OrderItemInput{{DishID: dish.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	onDay, err := svc.List(ctx, OrderFilter{Date: &day})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, first.ID, onDay[0].ID)

	delivery, err := svc.List(ctx, OrderFilter{Type: models.OrderDelivery})
	require.NoError(t, err)
	require.Len(t, delivery, 1)
	assert.Equal(t, second.ID, delivery[0].ID)

	mine, err := svc.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = svc.ListByCustomer(ctx, 999)
	assert.Equal(t, KindNotFound, KindOf(err))
}
