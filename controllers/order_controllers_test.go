package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/models"
)

func TestCreateOrderAndChangeStatus(t *testing.T) {
	s := setupServer(t)
	customer := s.seedCustomer(t, "ana@example.com")
	table := s.seedTable(t, 4)
	tacos := s.seedDish(t, "Tacos", "Principal", 10, true)
	flan := s.seedDish(t, "Flan", "Postre", 5, true)

	w := s.do(t, http.MethodPost, "/api/pedidos", map[string]interface{}{
		"cliente_id":  customer.ID,
		"mesa_id":     table.ID,
		"tipo_pedido": "mesa",
		"items": []map[string]interface{}{
			{"plato_id": tacos.ID, "cantidad": 2, "observaciones": "sin cebolla"},
			{"plato_id": flan.ID, "cantidad": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[models.Order](t, w)
	assert.Equal(t, 25.0, order.Total)
	assert.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Lines, 2)
	require.NotNil(t, order.Lines[0].Dish)
	assert.Equal(t, "Tacos", order.Lines[0].Dish.Name)
	assert.Equal(t, 20.0, order.Lines[0].Subtotal)
	require.NotNil(t, order.Table)
	assert.Equal(t, models.TableOccupied, order.Table.Status)

	// Snapshot historial tersedia setelah commit
	w = s.do(t, http.MethodGet, "/api/historial/pedido/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap := decode[models.OrderHistory](t, w)
	assert.Equal(t, 25.0, snap.Total)
	assert.Len(t, snap.Lines, 2)

	w = s.do(t, http.MethodPatch, "/api/pedidos/1/estado", map[string]interface{}{"estado": "en_preparacion"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TableOccupied, decode[models.Order](t, w).Table.Status)

	w = s.do(t, http.MethodPatch, "/api/pedidos/1/estado", map[string]interface{}{"estado": "entregado"})
	require.Equal(t, http.StatusOK, w.Code)
	delivered := decode[models.Order](t, w)
	assert.Equal(t, models.OrderDelivered, delivered.Status)
	assert.Equal(t, models.TableAvailable, delivered.Table.Status)

	// Status yang sama tidak mengubah apa pun
	w = s.do(t, http.MethodPatch, "/api/pedidos/1/estado", map[string]interface{}{"estado": "entregado"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderDelivered, decode[models.Order](t, w).Status)

	w = s.do(t, http.MethodGet, "/api/historial/pedido/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderDelivered, decode[models.OrderHistory](t, w).Status)
}

func TestCreateOrderErrors(t *testing.T) {
	s := setupServer(t)
	table := s.seedTable(t, 2)
	dish := s.seedDish(t, "Tacos", "Principal", 10, true)
	off := s.seedDish(t, "Pozole", "Principal", 9, false)
	require.NoError(t, s.DB.Model(&table).Update("estado", models.TableOccupied).Error)

	tests := []struct {
		name    string
		payload map[string]interface{}
		code    int
		msg     string
	}{
		{
			name:    "no items",
			payload: map[string]interface{}{"tipo_pedido": "para_llevar", "items": []interface{}{}},
			code:    http.StatusBadRequest,
			msg:     "order items are required",
		},
		{
			name:    "unknown customer",
			payload: map[string]interface{}{"cliente_id": 42, "items": []map[string]interface{}{{"plato_id": dish.ID, "cantidad": 1}}},
			code:    http.StatusNotFound,
			msg:     "customer 42 not found",
		},
		{
			name:    "occupied table",
			payload: map[string]interface{}{"mesa_id": table.ID, "items": []map[string]interface{}{{"plato_id": dish.ID, "cantidad": 1}}},
			code:    http.StatusBadRequest,
		},
		{
			name:    "missing dish",
			payload: map[string]interface{}{"tipo_pedido": "delivery", "items": []map[string]interface{}{{"plato_id": 99, "cantidad": 1}}},
			code:    http.StatusNotFound,
			msg:     "dishes not found: 99",
		},
		{
			name:    "unavailable dish",
			payload: map[string]interface{}{"tipo_pedido": "delivery", "items": []map[string]interface{}{{"plato_id": off.ID, "cantidad": 1}}},
			code:    http.StatusBadRequest,
			msg:     "dishes not available: Pozole",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/pedidos", tt.payload)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.msg != "" {
				assert.Equal(t, tt.msg, message(t, w))
			}
		})
	}

	var n int64
	require.NoError(t, s.DB.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestOrderQueries(t *testing.T) {
	s := setupServer(t)
	customer := s.seedCustomer(t, "ana@example.com")
	dish := s.seedDish(t, "Tacos", "Principal", 10, true)

	for _, typ := range []string{"para_llevar", "delivery"} {
		w := s.do(t, http.MethodPost, "/api/pedidos", map[string]interface{}{
			"cliente_id":  customer.ID,
			"tipo_pedido": typ,
			"items":       []map[string]interface{}{{"plato_id": dish.ID, "cantidad": 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/api/pedidos?tipo_pedido=delivery", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Order](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/pedidos?estado=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/pedidos?fecha=15-03-2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/pedidos/cliente/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]models.Order](t, w)
	require.Len(t, orders, 2)
	assert.Greater(t, orders[0].ID, orders[1].ID)

	w = s.do(t, http.MethodGet, "/api/pedidos/cliente/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/pedidos/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPatch, "/api/pedidos/1/estado", map[string]interface{}{"estado": "volando"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
