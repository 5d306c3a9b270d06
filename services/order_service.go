package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	DishID   uint   `json:"plato_id"`
	Quantity int    `json:"cantidad"`
	Notes    string `json:"observaciones"`
}

type CreateOrderInput struct {
	CustomerID *uint            `json:"cliente_id"`
	TableID    *uint            `json:"mesa_id"`
	Type       models.OrderType `json:"tipo_pedido"`
	Notes      string           `json:"observaciones"`
	Items      []OrderItemInput `json:"items"`
}

// OrderFilter narrows List. Date selects one calendar day (UTC).
type OrderFilter struct {
	Date       *time.Time
	CustomerID *uint
	Status     models.OrderStatus
	Type       models.OrderType
}

// OrderService owns the order workflow: pricing, the atomic write with the
// table transition, and the post-commit history mirror.
type OrderService struct {
	DB     *gorm.DB
	Relay  *HistoryRelay
	Events EventPublisher
	Now    func() time.Time
}

func NewOrderService(db *gorm.DB, history docstore.HistoryStore, events EventPublisher) *OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	return &OrderService{
		DB:     db,
		Relay:  NewHistoryRelay(db, history),
		Events: events,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, InvalidArgument("order items are required")
	}
	if in.Type == "" {
		in.Type = models.OrderDineIn
	}
	if !in.Type.Valid() {
		return nil, InvalidArgument("invalid tipo_pedido %q, valid values: mesa, para_llevar, delivery", in.Type)
	}
	for _, item := range in.Items {
		if item.DishID == 0 || item.Quantity < 1 {
			return nil, InvalidArgument("every item needs a plato_id and a cantidad of at least 1")
		}
	}

	db := s.DB.WithContext(ctx)

	if in.CustomerID != nil {
		var customer models.Customer
		if err := db.First(&customer, *in.CustomerID).Error; err != nil {
			return nil, lookupError(err, "customer %d not found", *in.CustomerID)
		}
	}

	if in.TableID != nil {
		var table models.Table
		if err := db.First(&table, *in.TableID).Error; err != nil {
			return nil, lookupError(err, "table %d not found", *in.TableID)
		}
		if table.Status != models.TableAvailable {
			return nil, Conflict("table %d is not available (estado: %s)", table.ID, table.Status)
		}
	}

	dishes, err := s.loadDishes(db, in.Items)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		CustomerID: in.CustomerID,
		TableID:    in.TableID,
		Date:       s.Now(),
		Status:     models.OrderPending,
		Type:       in.Type,
		Notes:      in.Notes,
	}
	order.Lines, order.Total, order.TotalCost = priceLines(in.Items, dishes)

	var outbox *models.OutboxEvent
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if order.Type == models.OrderDineIn && order.TableID != nil {
			res := tx.Model(&models.Table{}).
				Where("id = ? AND estado = ?", *order.TableID, models.TableAvailable).
				Update("estado", models.TableOccupied)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return Conflict("table %d is not available", *order.TableID)
			}
		}

		for i := range order.Lines {
			order.Lines[i].Dish = dishes[order.Lines[i].DishID]
		}
		ev, err := newOutboxEvent(models.TopicHistoryCreate, order.ID, order.Snapshot())
		if err != nil {
			return err
		}
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		outbox = ev
		return nil
	})
	if err != nil {
		return nil, txError(err, "failed to create order")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    utils.FormatMoney(order.Total),
		"lines":    len(order.Lines),
	}).Info("Order created")

	s.Relay.deliverAfterCommit(ctx, outbox)
	publish(ctx, s.Events, Event{Type: EventOrderCreated, ID: order.ID, Status: string(order.Status)})

	return s.Get(ctx, order.ID)
}

// loadDishes returns the referenced dishes by id, or NotFound / Conflict
// when any is missing or unavailable.
func (s *OrderService) loadDishes(db *gorm.DB, items []OrderItemInput) (map[uint]*models.Dish, error) {
	ids := make([]uint, 0, len(items))
	seen := map[uint]bool{}
	for _, item := range items {
		if !seen[item.DishID] {
			seen[item.DishID] = true
			ids = append(ids, item.DishID)
		}
	}

	var found []models.Dish
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}

	dishes := make(map[uint]*models.Dish, len(found))
	for i := range found {
		dishes[found[i].ID] = &found[i]
	}

	var missing []string
	for _, id := range ids {
		if _, ok := dishes[id]; !ok {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}
	if len(missing) > 0 {
		return nil, NotFound("dishes not found: %s", strings.Join(missing, ", "))
	}

	var unavailable []string
	for _, id := range ids {
		if d := dishes[id]; !d.Available {
			unavailable = append(unavailable, d.Name)
		}
	}
	if len(unavailable) > 0 {
		return nil, Conflict("dishes not available: %s", strings.Join(unavailable, ", "))
	}
	return dishes, nil
}

// priceLines snapshots price and cost per line and sums the order totals.
func priceLines(items []OrderItemInput, dishes map[uint]*models.Dish) ([]models.OrderLine, float64, float64) {
	lines := make([]models.OrderLine, 0, len(items))
	var total, totalCost float64
	for _, item := range items {
		dish := dishes[item.DishID]
		subtotal := utils.RoundMoney(dish.Price * float64(item.Quantity))
		costSubtotal := utils.RoundMoney(dish.Cost * float64(item.Quantity))
		lines = append(lines, models.OrderLine{
			DishID:    dish.ID,
			Quantity:  item.Quantity,
			UnitPrice: dish.Price,
			UnitCost:  dish.Cost,
			Subtotal:  subtotal,
			Notes:     item.Notes,
		})
		total += subtotal
		totalCost += costSubtotal
	}
	return lines, utils.RoundMoney(total), utils.RoundMoney(totalCost)
}

// ChangeStatus moves an order to status. Setting the current status again
// returns the order untouched.
func (s *OrderService) ChangeStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, InvalidArgument("invalid estado %q, valid values: pendiente, en_preparacion, listo, entregado, cancelado", status)
	}

	db := s.DB.WithContext(ctx)
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		return nil, lookupError(err, "order %d not found", id)
	}
	if order.Status == status {
		return s.Get(ctx, id)
	}

	var outbox *models.OutboxEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND estado = ?", order.ID, order.Status).
			Update("estado", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return Conflict("order %d was modified concurrently, retry", order.ID)
		}

		if status.ReleasesTable() && order.TableID != nil {
			if err := tx.Model(&models.Table{}).
				Where("id = ?", *order.TableID).
				Update("estado", models.TableAvailable).Error; err != nil {
				return err
			}
		}

		ev, err := newOutboxEvent(models.TopicHistoryStatus, order.ID, models.StatusChange{OrderID: order.ID, Status: status})
		if err != nil {
			return err
		}
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		outbox = ev
		return nil
	})
	if err != nil {
		return nil, txError(err, "failed to update order status")
	}

	utils.InfoLogger.Printf("Order %d status changed %s -> %s", order.ID, order.Status, status)

	s.Relay.deliverAfterCommit(ctx, outbox)
	publish(ctx, s.Events, Event{Type: EventOrderStatusChanged, ID: order.ID, Status: string(status)})

	return s.Get(ctx, id)
}

func (s *OrderService) preloaded(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Preload("Customer").
		Preload("Table").
		Preload("Lines").
		Preload("Lines.Dish")
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.preloaded(ctx).First(&order, id).Error; err != nil {
		return nil, lookupError(err, "order %d not found", id)
	}
	return &order, nil
}

func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.preloaded(ctx)
	if f.Date != nil {
		start := utils.StartOfDay(f.Date.UTC())
		q = q.Where("fecha >= ? AND fecha < ?", start, start.AddDate(0, 0, 1))
	}
	if f.CustomerID != nil {
		q = q.Where("cliente_id = ?", *f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("estado = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("tipo_pedido = ?", f.Type)
	}

	orders := []models.Order{}
	if err := q.Order("fecha DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}
	return orders, nil
}

// ListByCustomer returns the customer's orders, NotFound if the customer does not exist.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var customer models.Customer
	if err := s.DB.WithContext(ctx).First(&customer, customerID).Error; err != nil {
		return nil, lookupError(err, "customer %d not found", customerID)
	}
	return s.List(ctx, OrderFilter{CustomerID: &customerID})
}
