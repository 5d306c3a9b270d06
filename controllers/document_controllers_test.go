package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
)

func TestReviewEndpoints(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/resenas", map[string]interface{}{
		"calificacion": 5,
		"comentario":   "La paella estaba excelente",
		"tipo_visita":  "familiar",
		"cliente_id":   1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	review := decode[models.Review](t, w)
	assert.Equal(t, []string{}, review.Dishes)
	id := review.ID.Hex()

	w = s.do(t, http.MethodPost, "/api/resenas", map[string]interface{}{
		"calificacion":      2,
		"comentario":        "Servicio lento",
		"tipo_visita":       "negocios",
		"platos_consumidos": []string{"Tacos"},
		"cliente_id":        2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/resenas", map[string]interface{}{"calificacion": 4, "comentario": "Bien"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/resenas", map[string]interface{}{
		"calificacion": 9, "comentario": "x", "tipo_visita": "familiar", "cliente_id": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/resenas/filtrar?calificacion_min=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Review](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/resenas/filtrar?calificacion_max=7", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/resenas/buscar?query=paella", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Review](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/resenas/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[docstore.ReviewStats](t, w)
	assert.Equal(t, 2, stats.General.Count)
	assert.InDelta(t, 3.5, stats.General.Average, 0.001)
	assert.Len(t, stats.ByVisitType, 2)

	w = s.do(t, http.MethodPut, "/api/resenas/"+id, map[string]interface{}{"calificacion": 4})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Review](t, w)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "La paella estaba excelente", updated.Comment)

	w = s.do(t, http.MethodGet, "/api/resenas/cliente/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Review](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/resenas/not-an-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "review not found", message(t, w))

	w = s.do(t, http.MethodDelete, "/api/resenas/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/resenas/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreferenceEndpoints(t *testing.T) {
	s := setupServer(t)
	s.seedCustomer(t, "ana@example.com")

	w := s.do(t, http.MethodGet, "/api/preferencias/cliente/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	def := decode[models.Preference](t, w)
	assert.Empty(t, def.Intolerances)
	assert.Empty(t, def.PreferredStyles)

	w = s.do(t, http.MethodGet, "/api/preferencias/cliente/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/preferencias/cliente/1", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/preferencias/cliente/1", map[string]interface{}{
		"intolerancias":      []string{"gluten"},
		"estilos_preferidos": []string{"mexicana"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Daftar yang tidak dikirim tetap seperti sebelumnya
	w = s.do(t, http.MethodPut, "/api/preferencias/cliente/1", map[string]interface{}{"intolerancias": []string{"lactosa"}})
	require.Equal(t, http.StatusOK, w.Code)
	pref := decode[models.Preference](t, w)
	assert.Equal(t, []string{"lactosa"}, pref.Intolerances)
	assert.Equal(t, []string{"mexicana"}, pref.PreferredStyles)
	assert.NotNil(t, pref.LastUpdated)

	w = s.do(t, http.MethodGet, "/api/preferencias", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Preference](t, w), 1)

	w = s.do(t, http.MethodDelete, "/api/preferencias/cliente/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/api/preferencias/cliente/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	s := setupServer(t)
	customer := s.seedCustomer(t, "ana@example.com")
	tacos := s.seedDish(t, "Tacos", "Principal", 10, true)
	flan := s.seedDish(t, "Flan", "Postre", 5, true)

	for _, qty := range []int{2, 1} {
		w := s.do(t, http.MethodPost, "/api/pedidos", map[string]interface{}{
			"cliente_id":  customer.ID,
			"tipo_pedido": "para_llevar",
			"items": []map[string]interface{}{
				{"plato_id": tacos.ID, "cantidad": qty},
				{"plato_id": flan.ID, "cantidad": 1},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/api/historial/cliente/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.OrderHistory](t, w), 2)

	w = s.do(t, http.MethodGet, "/api/historial/cliente/1?fecha_inicio=bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	today := time.Now().UTC().Format("2006-01-02")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	w = s.do(t, http.MethodGet, "/api/historial/cliente/1?fecha_fin="+today, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.OrderHistory](t, w), 2, "fecha_fin includes the whole day")

	w = s.do(t, http.MethodGet, "/api/historial/cliente/1?fecha_inicio="+yesterday+"&fecha_fin="+yesterday, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.OrderHistory](t, w))

	w = s.do(t, http.MethodGet, "/api/historial/cliente/1?fecha_fin=2024-02-30", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/historial/cliente/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/historial/cliente/1/populares", nil)
	require.Equal(t, http.StatusOK, w.Code)
	top := decode[[]map[string]interface{}](t, w)
	require.Len(t, top, 2)
	assert.Equal(t, "Tacos", top[0]["nombre"])
	assert.EqualValues(t, 3, top[0]["veces_ordenado"])
	assert.EqualValues(t, 30, top[0]["total_gastado"])

	w = s.do(t, http.MethodPut, "/api/historial/pedido/2", map[string]interface{}{
		"detalles_platos": []map[string]interface{}{{"nombre_plato": "Tacos", "cantidad": 0, "precio_unitario": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/historial/pedido/2", map[string]interface{}{
		"detalles_platos": []map[string]interface{}{{"nombre_plato": "Tacos", "cantidad": 4, "precio_unitario": 10}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[models.OrderHistory](t, w).Lines, 1)

	w = s.do(t, http.MethodGet, "/api/historial/estadisticas/platos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	global := decode[[]map[string]interface{}](t, w)
	require.NotEmpty(t, global)
	assert.Equal(t, "Tacos", global[0]["nombre"])
	assert.EqualValues(t, 6, global[0]["veces_ordenado"])
	assert.EqualValues(t, 60, global[0]["ingresos_totales"])

	w = s.do(t, http.MethodGet, "/api/historial/pedido/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSalesDashboardEndpoint(t *testing.T) {
	s := setupServer(t)
	dish := s.seedDish(t, "Tacos", "Principal", 10, true)

	w := s.do(t, http.MethodPost, "/api/pedidos", map[string]interface{}{
		"tipo_pedido": "para_llevar",
		"items":       []map[string]interface{}{{"plato_id": dish.ID, "cantidad": 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/ventas", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dash := decode[services.SalesDashboard](t, w)
	assert.Equal(t, 30.0, dash.TotalSales)
	assert.EqualValues(t, 1, dash.TotalOrders)
	assert.Equal(t, 15.0, dash.NetProfit)
	assert.Equal(t, 30.0, dash.TodaySales)
	assert.Len(t, dash.WeekSales, 7)

	w = s.do(t, http.MethodGet, "/api/ventas?fechaInicio=2024-13-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
