package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/database"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/router"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}

	// Document store: MongoDB bila dikonfigurasi, selain itu in-memory
	stores := docstore.NewMemoryStores()
	if cfg.MongoURI != "" {
		client, mdb, err := config.ConnectMongo(ctx, cfg)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())

		if err := docstore.EnsureIndexes(ctx, mdb); err != nil {
			utils.ErrorLogger.Fatalf("Failed to create MongoDB indexes: %v", err)
		}
		stores = docstore.NewMongoStores(mdb)
		utils.InfoLogger.WithField("database", cfg.MongoDatabase).Info("MongoDB connected")
	} else {
		utils.InfoLogger.Warn("MONGO_URI not set, history, preferences and reviews are kept in memory")
	}

	rdb := config.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	var events services.EventPublisher = services.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		pub, err := services.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			utils.ErrorLogger.Printf("RabbitMQ unavailable, events disabled: %v", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	images, err := services.NewImageStore(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to initialize image storage: %v", err)
	}

	orders := services.NewOrderService(db, stores.History, events)
	orders.Relay.Interval = cfg.OutboxInterval
	orders.Relay.MaxAttempts = cfg.OutboxMaxAttempts
	orders.Relay.Start()
	defer orders.Relay.Stop()

	deps := router.Deps{
		DB:               db,
		Stores:           stores,
		Orders:           orders,
		Reservations:     services.NewReservationService(db, events),
		Sales:            services.NewSalesService(db, stores.History),
		Images:           images,
		Redis:            rdb,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		CacheTTL:         cfg.CacheTTL,
	}
	if cfg.ImageStorage == "local" {
		deps.UploadDir = cfg.UploadDir
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Server forced to shutdown: %v", err)
	}
}
