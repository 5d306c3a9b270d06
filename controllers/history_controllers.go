package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

// HistoryController membaca dan mengoreksi snapshot historial_pedidos.
type HistoryController struct {
	DB      *gorm.DB
	History docstore.HistoryStore
}

func NewHistoryController(db *gorm.DB, history docstore.HistoryStore) *HistoryController {
	return &HistoryController{DB: db, History: history}
}

type customerDishStat struct {
	Name       string  `json:"nombre"`
	TimesOrder int     `json:"veces_ordenado"`
	TotalSpent float64 `json:"total_gastado"`
}

type globalDishStat struct {
	Name       string  `json:"nombre"`
	TimesOrder int     `json:"veces_ordenado"`
	Revenue    float64 `json:"ingresos_totales"`
}

func (hc *HistoryController) exists(c *gin.Context, model interface{}, id uint, notFound string) bool {
	if err := hc.DB.WithContext(c.Request.Context()).Select("id").First(model, id).Error; err != nil {
		respondDBError(c, err, notFound)
		return false
	}
	return true
}

// GetCustomerHistory -> ?plato=&fecha_inicio=&fecha_fin= (fecha_fin inklusif)
func (hc *HistoryController) GetCustomerHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !hc.exists(c, &models.Customer{}, id, "customer not found") {
		return
	}
	from, to, ok := queryDateRange(c, "fecha_inicio", "fecha_fin")
	if !ok {
		return
	}

	history, err := hc.History.FindByCustomer(c.Request.Context(), id, docstore.HistoryFilter{
		DishName: c.Query("plato"),
		From:     from,
		To:       to,
	})
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, history)
}

// GetOrderHistory -> GET /historial/pedido/:id
func (hc *HistoryController) GetOrderHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !hc.exists(c, &models.Order{}, id, "order not found") {
		return
	}

	h, err := hc.History.FindByOrder(c.Request.Context(), id)
	if err != nil {
		respondDBError(c, err, "order history not found")
		return
	}
	utils.RespondJSON(c, http.StatusOK, h)
}

// UpdateOrderHistory -> mengganti detalles_platos pada snapshot
func (hc *HistoryController) UpdateOrderHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type reqBody struct {
		Lines []models.HistoryLine `json:"detalles_platos" binding:"required,dive"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !hc.exists(c, &models.Order{}, id, "order not found") {
		return
	}

	h, err := hc.History.ReplaceLines(c.Request.Context(), id, req.Lines)
	if err != nil {
		respondDBError(c, err, "order history not found")
		return
	}
	utils.RespondJSON(c, http.StatusOK, h)
}

// GetCustomerTopDishes -> 5 plato paling sering dipesan oleh cliente
func (hc *HistoryController) GetCustomerTopDishes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !hc.exists(c, &models.Customer{}, id, "customer not found") {
		return
	}

	stats, err := hc.History.TopDishes(c.Request.Context(), docstore.DishStatsQuery{CustomerID: &id, Limit: 5})
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	out := make([]customerDishStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, customerDishStat{Name: s.Name, TimesOrder: s.Quantity, TotalSpent: utils.RoundMoney(s.Revenue)})
	}
	utils.RespondJSON(c, http.StatusOK, out)
}

// GetDishStatistics -> 10 plato teratas dari seluruh historial
func (hc *HistoryController) GetDishStatistics(c *gin.Context) {
	stats, err := hc.History.TopDishes(c.Request.Context(), docstore.DishStatsQuery{Limit: 10})
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	out := make([]globalDishStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, globalDishStat{Name: s.Name, TimesOrder: s.Quantity, Revenue: utils.RoundMoney(s.Revenue)})
	}
	utils.RespondJSON(c, http.StatusOK, out)
}
