package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// GetOrders -> filter fecha, cliente_id, estado, tipo_pedido
func (oc *OrderController) GetOrders(c *gin.Context) {
	var f services.OrderFilter
	if raw := c.Query("fecha"); raw != "" {
		day, err := utils.ParseDate(raw)
		if err != nil {
			badRequest(c, "fecha: %v", err)
			return
		}
		f.Date = &day
	}
	customerID, ok := queryUint(c, "cliente_id")
	if !ok {
		return
	}
	f.CustomerID = customerID

	if s := models.OrderStatus(c.Query("estado")); s != "" {
		if !s.Valid() {
			badRequest(c, "invalid estado %q", s)
			return
		}
		f.Status = s
	}
	if t := models.OrderType(c.Query("tipo_pedido")); t != "" {
		if !t.Valid() {
			badRequest(c, "invalid tipo_pedido %q", t)
			return
		}
		f.Type = t
	}

	orders, err := oc.Orders.List(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, orders)
}

// GetCustomerOrders -> GET /pedidos/cliente/:id
func (oc *OrderController) GetCustomerOrders(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	orders, err := oc.Orders.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, orders)
}

// GetOrderByID
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, order)
}

// CreateOrder -> validasi, hitung total, simpan dalam satu transaksi
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, order)
}

// UpdateOrderStatus -> PATCH /pedidos/:id/estado
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type reqBody struct {
		Status models.OrderStatus `json:"estado" binding:"required"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, order)
}
