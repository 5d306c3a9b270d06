package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type SalesController struct {
	Sales *services.SalesService
}

func NewSalesController(sales *services.SalesService) *SalesController {
	return &SalesController{Sales: sales}
}

// GetSalesDashboard -> GET /ventas?fechaInicio=&fechaFin=
func (sc *SalesController) GetSalesDashboard(c *gin.Context) {
	from, to, ok := queryDateRange(c, "fechaInicio", "fechaFin")
	if !ok {
		return
	}

	dashboard, err := sc.Sales.Dashboard(c.Request.Context(), services.SalesRange{From: from, To: to})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, dashboard)
}
