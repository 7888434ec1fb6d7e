package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"merchant-console/internal/clients"
	"merchant-console/internal/config"
	"merchant-console/internal/drafts"
	"merchant-console/internal/events"
	"merchant-console/internal/handlers"
	"merchant-console/internal/middleware"
	"merchant-console/internal/repository"
	"merchant-console/internal/storectx"
	"merchant-console/internal/subscribers"
)

// @title Merchant Console API
// @version 1.0.0
// @description Store owner console: store setup, option product registration, notices and sales statistics

// @host localhost:8090
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize database (runs auto-migrations)
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis client. Without Redis the console keeps drafts and
	// store context in process memory and skips the category cache.
	var redisClient *redis.Client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
	} else {
		redisClient = redis.NewClient(redisOpts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARNING: Failed to connect to Redis: %v (using in-memory state)", err)
			redisClient.Close()
			redisClient = nil
		} else {
			log.Println("✓ Redis connected successfully")
		}
		cancel()
	}

	var (
		storeBackend storectx.Backend
		draftStore   drafts.Store
	)
	if redisClient != nil {
		storeBackend = storectx.NewRedisBackend(redisClient)
		draftStore = drafts.NewRedisStore(redisClient, cfg.DraftTTL)
	} else {
		storeBackend = storectx.NewMemoryBackend()
		draftStore = drafts.NewMemoryStore()
	}
	stores := storectx.New(storeBackend, logger)

	// Initialize repositories
	noticeRepo := repository.NewNoticeRepository(db)
	salesRepo := repository.NewSalesRepository(db)

	// Initialize event publisher only if NATS_URL is set
	var eventsPublisher *events.Publisher
	var orderSubscriber *subscribers.OrderSubscriber
	if cfg.NATSURL != "" {
		eventsPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
		}

		orderSubscriber, err = subscribers.NewOrderSubscriber(cfg.NATSURL, salesRepo, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize order subscriber: %v (sales statistics will not update)", err)
		}
	} else {
		log.Println("NATS_URL not set, skipping event publishing and order subscription")
	}

	subCtx, stopSubscribers := context.WithCancel(context.Background())
	defer stopSubscribers()
	if orderSubscriber != nil {
		if err := orderSubscriber.Start(subCtx); err != nil {
			log.Printf("WARNING: Failed to start order subscriber: %v", err)
		} else {
			log.Println("✓ Order subscriber started")
		}
	}

	// Initialize clients
	backendClient := clients.NewBackendClient(cfg.APIURL, cfg.APITimeout, cfg.APIRateLimit, logger)
	categoriesClient := clients.NewCategoriesClient(backendClient, redisClient, cfg.CategoryCacheTTL)

	// Initialize services and handlers
	draftService := drafts.NewService(draftStore, backendClient, eventsPublisher, cfg.MaxOptionAxes, logger)

	authHandler := handlers.NewAuthHandler(backendClient, stores, cfg.JWTSecret, cfg.JWTTTL, logger)
	storeHandler := handlers.NewStoreHandler(backendClient, stores, eventsPublisher, logger)
	productsHandler := handlers.NewProductsHandler(backendClient)
	draftsHandler := handlers.NewDraftsHandler(draftService, logger)
	categoryHandler := handlers.NewCategoryHandler(categoriesClient, backendClient)
	noticeHandler := handlers.NewNoticeHandler(noticeRepo, logger)
	statsHandler := handlers.NewStatsHandler(salesRepo, logger)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	metrics := middleware.NewMetrics("console", "merchant_console")
	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRateLimit, 5)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(metrics.Middleware())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check endpoints (no auth required)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/sign-up", loginLimiter.Middleware(), authHandler.SignUp)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/categories", categoryHandler.GetCategoryTree)

			// Store setup works before the store exists
			protected.GET("/store/context", storeHandler.GetContext)
			protected.PATCH("/store/context", storeHandler.PatchContext)
			protected.POST("/store/register", storeHandler.RegisterStore)

			// The option product form is kept per owner
			draft := protected.Group("/drafts/option-product")
			{
				draft.GET("", draftsHandler.GetDraft)
				draft.DELETE("", draftsHandler.Discard)
				draft.PUT("/details", draftsHandler.SaveDetails)
				draft.PUT("/axes", draftsHandler.SetAxes)
				draft.POST("/axes", draftsHandler.AddAxis)
				draft.DELETE("/axes/:index", draftsHandler.RemoveAxis)
				draft.POST("/apply", draftsHandler.Apply)
				draft.PATCH("/variants/:row", draftsHandler.UpdateCell)
				draft.DELETE("/variants/:row", draftsHandler.RemoveRow)
				draft.GET("/export", draftsHandler.Export)
				draft.POST("/import", draftsHandler.Import)
				draft.POST("/submit", middleware.StoreMiddleware(stores), draftsHandler.Submit)
			}

			scoped := protected.Group("")
			scoped.Use(middleware.StoreMiddleware(stores))
			{
				store := scoped.Group("/store")
				{
					store.GET("/business-hours", storeHandler.GetBusinessHours)
					store.PUT("/business-hours", storeHandler.UpdateBusinessHours)
					store.PUT("/work-condition", storeHandler.UpdateWorkCondition)
					store.PUT("/status", storeHandler.UpdateExposure)

					store.GET("/categories", categoryHandler.ListHomeCategories)
					store.POST("/categories", categoryHandler.CreateHomeCategory)
					store.PUT("/categories/:id", categoryHandler.UpdateHomeCategory)
					store.DELETE("/categories/:id", categoryHandler.DeleteHomeCategory)
				}

				products := scoped.Group("/products")
				{
					products.GET("", productsHandler.ListProducts)
					products.GET("/:id", productsHandler.GetProduct)
					products.POST("/single", productsHandler.CreateSingleProduct)
				}

				notices := scoped.Group("/notices")
				{
					notices.GET("", noticeHandler.ListNotices)
					notices.POST("", noticeHandler.CreateNotice)
					notices.POST("/bulk-delete", noticeHandler.BulkDeleteNotices)
					notices.GET("/:id", noticeHandler.GetNotice)
					notices.PUT("/:id", noticeHandler.UpdateNotice)
					notices.DELETE("/:id", noticeHandler.DeleteNotice)
				}

				scoped.GET("/stats/sales", statsHandler.GetSalesReport)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Merchant console starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down merchant console...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	stopSubscribers()
	orderSubscriber.Close()
	eventsPublisher.Close()
	if redisClient != nil {
		redisClient.Close()
	}

	log.Println("Merchant console stopped")
}
