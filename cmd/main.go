package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"warung-service/internal/bot"
	"warung-service/internal/handler"
	mid "warung-service/internal/middleware"
	"warung-service/internal/notify"
	"warung-service/internal/order"
	"warung-service/pkg/config"
	"warung-service/pkg/database"
	"warung-service/pkg/jwtutil"
	"warung-service/pkg/logger"
	"warung-service/prometheus"
)

func main() {
	// Load configuration (.env handled inside)
	appConfig, err := config.Load("warung")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting warung-service", appConfig.LogConfig()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if appConfig.SeedOnBoot {
		n, err := database.Seed(db)
		if err != nil {
			log.Fatal("Failed to seed starter catalog", zap.Error(err))
		}
		if n > 0 {
			log.Info("Starter catalog seeded", zap.Int("products", n))
		}
	}

	// Wire collaborators: gateway client, lifecycle engine, chatbot
	jwtUtil := jwtutil.NewJWTUtil(&appConfig.JWT)
	notifier := notify.NewClient(&appConfig.WhatsApp, log)
	adminChatID, ok := notify.ChatID(appConfig.WhatsApp.AdminNumber)
	if !ok {
		log.Warn("WA_ADMIN_NUMBER not configured; admin alerts and chatbot commands are disabled")
	}
	orderService := order.NewService(db, notifier, adminChatID, log)
	interpreter := bot.NewInterpreter(db, orderService, notifier, &appConfig.WhatsApp, log)

	authHandler := handler.NewAuthHandler(appConfig, jwtUtil)
	productHandler := handler.NewProductHandler(db, appConfig.Server.UploadDir)
	mitraHandler := handler.NewMitraHandler(db)
	orderHandler := handler.NewOrderHandler(orderService)
	webhookHandler := handler.NewWebhookHandler(interpreter)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())

	// Metrics and health endpoints
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)

	// Uploaded product images
	e.Static("/uploads", appConfig.Server.UploadDir)

	api := e.Group("/api")
	admin := api.Group("", mid.AuthMiddleware(jwtUtil))

	// Public storefront routes
	api.POST("/login", authHandler.Login)
	api.GET("/products", productHandler.List)
	api.POST("/orders", orderHandler.Create)
	api.POST("/webhook", webhookHandler.Handle)

	// Admin panel routes
	admin.POST("/products", productHandler.Create)
	admin.DELETE("/products/:id", productHandler.Delete)
	admin.GET("/mitra", mitraHandler.List)
	admin.POST("/mitra", mitraHandler.Create)
	admin.DELETE("/mitra/:id", mitraHandler.Delete)
	admin.GET("/orders", orderHandler.List)
	admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
