package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-backoffice/controllers"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/middlewares"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"gorm.io/gorm"
)

const (
	salesCachePrefix   = "cache:ventas"
	historyCachePrefix = "cache:historial"
	reviewCachePrefix  = "cache:resenas"
)

// Deps is everything the HTTP layer needs; main builds it from config.
type Deps struct {
	DB           *gorm.DB
	Stores       *docstore.Stores
	Orders       *services.OrderService
	Reservations *services.ReservationService
	Sales        *services.SalesService
	Images       services.ImageStore
	Redis        *redis.Client

	CORSAllowOrigins []string
	RateLimitRPS     float64
	RateLimitBurst   int
	CacheTTL         time.Duration
	// UploadDir is served under /uploads when images are stored locally.
	UploadDir string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares(d.CORSAllowOrigins))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.NewRateLimiter(d.RateLimitRPS, d.RateLimitBurst).RateLimit())

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API de gestión de restaurante"})
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	customerCtrl := controllers.NewCustomerController(d.DB)
	tableCtrl := controllers.NewTableController(d.DB, d.Reservations)
	menuCtrl := controllers.NewMenuController(d.DB, d.Images)
	orderCtrl := controllers.NewOrderController(d.Orders)
	reservationCtrl := controllers.NewReservationController(d.Reservations)
	reviewCtrl := controllers.NewReviewController(d.Stores.Reviews)
	preferenceCtrl := controllers.NewPreferenceController(d.DB, d.Stores.Preferences)
	historyCtrl := controllers.NewHistoryController(d.DB, d.Stores.History)
	salesCtrl := controllers.NewSalesController(d.Sales)

	api := r.Group("/api")

	clientes := api.Group("/clientes")
	{
		clientes.GET("", customerCtrl.GetAllCustomers)
		clientes.GET("/:id", customerCtrl.GetCustomerByID)
		clientes.POST("", customerCtrl.CreateCustomer)
		clientes.PUT("/:id", customerCtrl.UpdateCustomer)
		clientes.DELETE("/:id", customerCtrl.DeleteCustomer)
	}

	mesas := api.Group("/mesas")
	{
		mesas.GET("", tableCtrl.GetAllTables)
		mesas.GET("/disponibilidad", tableCtrl.CheckAvailability)
		mesas.GET("/:id", tableCtrl.GetTableByID)
		mesas.POST("", tableCtrl.CreateTable)
		mesas.PUT("/:id", tableCtrl.UpdateTable)
		mesas.DELETE("/:id", tableCtrl.DeleteTable)
	}

	// Dashboard ventas mengelompokkan per kategori plato, jadi cache-nya ikut dibuang.
	platos := api.Group("/platos", middlewares.CacheBuster(d.Redis, salesCachePrefix))
	{
		platos.GET("", menuCtrl.GetAllMenus)
		platos.GET("/search", menuCtrl.SearchMenus)
		platos.GET("/:id", menuCtrl.GetMenuByID)
		platos.POST("", menuCtrl.CreateMenu)
		platos.PUT("/:id", menuCtrl.UpdateMenu)
		platos.DELETE("/:id", menuCtrl.DeleteMenu)
		platos.PATCH("/:id/disponibilidad", menuCtrl.ToggleAvailability)
		platos.POST("/:id/imagen", menuCtrl.UploadMenuImage)
	}

	// Pedidos mengubah angka penjualan dan historial, jadi cache keduanya dibuang.
	pedidos := api.Group("/pedidos", middlewares.CacheBuster(d.Redis, salesCachePrefix, historyCachePrefix))
	{
		pedidos.GET("", orderCtrl.GetOrders)
		pedidos.GET("/cliente/:id", orderCtrl.GetCustomerOrders)
		pedidos.GET("/:id", orderCtrl.GetOrderByID)
		pedidos.POST("", orderCtrl.CreateOrder)
		pedidos.PATCH("/:id/estado", orderCtrl.UpdateOrderStatus)
	}

	reservas := api.Group("/reservas")
	{
		reservas.GET("", reservationCtrl.GetReservations)
		reservas.GET("/fecha/:fecha", reservationCtrl.GetReservationsByDate)
		reservas.GET("/:id", reservationCtrl.GetReservationByID)
		reservas.POST("", reservationCtrl.CreateReservation)
		reservas.PUT("/:id", reservationCtrl.UpdateReservation)
		reservas.PATCH("/:id/estado", reservationCtrl.UpdateReservationStatus)
		reservas.DELETE("/:id", reservationCtrl.DeleteReservation)
	}

	resenas := api.Group("/resenas", middlewares.CacheBuster(d.Redis, reviewCachePrefix))
	{
		resenas.GET("", reviewCtrl.GetReviews)
		resenas.GET("/filtrar", reviewCtrl.FilterReviews)
		resenas.GET("/buscar", reviewCtrl.SearchReviews)
		resenas.GET("/stats", middlewares.ResponseCache(d.Redis, reviewCachePrefix, d.CacheTTL), reviewCtrl.GetReviewStats)
		resenas.GET("/cliente/:id", reviewCtrl.GetCustomerReviews)
		resenas.GET("/:id", reviewCtrl.GetReviewByID)
		resenas.POST("", reviewCtrl.CreateReview)
		resenas.PUT("/:id", reviewCtrl.UpdateReview)
		resenas.DELETE("/:id", reviewCtrl.DeleteReview)
	}

	preferencias := api.Group("/preferencias")
	{
		preferencias.GET("", preferenceCtrl.GetAllPreferences)
		preferencias.GET("/cliente/:id", preferenceCtrl.GetCustomerPreferences)
		preferencias.POST("/cliente/:id", preferenceCtrl.UpsertCustomerPreferences)
		preferencias.PUT("/cliente/:id", preferenceCtrl.UpsertCustomerPreferences)
		preferencias.DELETE("/cliente/:id", preferenceCtrl.DeleteCustomerPreferences)
	}

	historial := api.Group("/historial", middlewares.CacheBuster(d.Redis, historyCachePrefix, salesCachePrefix))
	{
		historial.GET("/cliente/:id", historyCtrl.GetCustomerHistory)
		historial.GET("/cliente/:id/populares", historyCtrl.GetCustomerTopDishes)
		historial.GET("/pedido/:id", historyCtrl.GetOrderHistory)
		historial.PUT("/pedido/:id", historyCtrl.UpdateOrderHistory)
		historial.GET("/estadisticas/platos", middlewares.ResponseCache(d.Redis, historyCachePrefix, d.CacheTTL), historyCtrl.GetDishStatistics)
	}

	api.GET("/ventas", middlewares.ResponseCache(d.Redis, salesCachePrefix, d.CacheTTL), salesCtrl.GetSalesDashboard)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})

	return r
}
