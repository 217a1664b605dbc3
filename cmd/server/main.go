package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	notificationapp "github.com/vivenda/backend/internal/application/notification"
	vaultapp "github.com/vivenda/backend/internal/application/vault"
	"github.com/vivenda/backend/internal/infrastructure/auth"
	"github.com/vivenda/backend/internal/infrastructure/billing"
	"github.com/vivenda/backend/internal/infrastructure/changefeed"
	"github.com/vivenda/backend/internal/infrastructure/config"
	"github.com/vivenda/backend/internal/infrastructure/event"
	"github.com/vivenda/backend/internal/infrastructure/logger"
	"github.com/vivenda/backend/internal/infrastructure/persistence"
	"github.com/vivenda/backend/internal/infrastructure/storage"
	"github.com/vivenda/backend/internal/interfaces/http/handler"
	"github.com/vivenda/backend/internal/interfaces/http/middleware"
	"github.com/vivenda/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Vivenda Vault API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, gormlogger.Warn)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis, used as the notification changefeed transport
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	feed := changefeed.NewRedisChangefeed(redisClient, changefeed.WithLogger(log))
	defer func() {
		if err := feed.Close(); err != nil {
			log.Error("Error closing changefeed", zap.Error(err))
		}
	}()

	// Repositories
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	grantRepo := persistence.NewGormAccessGrantRepository(db.DB)
	buyerAccessRepo := persistence.NewGormBuyerAccessRepository(db.DB)
	consentRepo := persistence.NewGormConsentRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	professionalRepo := persistence.NewGormProfessionalRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Event bus for domain events
	eventBus := event.NewBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Object storage for document files. Without a configured bucket the
	// stub keeps local development working; presigned URLs point nowhere.
	var fileStorage vaultapp.FileStorage
	if cfg.Storage.Bucket == "" {
		log.Warn("No storage bucket configured, using stub file storage")
		fileStorage = storage.NewStubFileStorage()
	} else {
		s3Storage, err := storage.NewS3FileStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		fileStorage = s3Storage
	}

	// Stripe checkout for paid buyer access
	checkoutProvider, err := billing.NewStripeCheckoutProvider(&cfg.Stripe, log)
	if err != nil {
		log.Fatal("Failed to initialize Stripe checkout provider", zap.Error(err))
	}

	buyerAccessPrice, err := decimal.NewFromString(cfg.Vault.BuyerAccessPrice)
	if err != nil {
		log.Fatal("Invalid buyer access price",
			zap.String("value", cfg.Vault.BuyerAccessPrice),
			zap.Error(err),
		)
	}

	// Application services
	notifier := notificationapp.NewStakeholderNotifier(
		notificationRepo, propertyRepo, grantRepo, buyerAccessRepo, professionalRepo, feed, log,
	)
	resolver := vaultapp.NewAccessResolver(grantRepo, buyerAccessRepo, professionalRepo, propertyRepo)
	documentService := vaultapp.NewDocumentService(
		documentRepo, propertyRepo, consentRepo, resolver, fileStorage, notifier, eventBus, log,
	)
	grantService := vaultapp.NewGrantService(grantRepo, professionalRepo, propertyRepo, eventBus, log)
	buyerAccessService := vaultapp.NewBuyerAccessService(
		buyerAccessRepo, propertyRepo, checkoutProvider, eventBus,
		vaultapp.BuyerAccessConfig{
			Price:          buyerAccessPrice,
			AccessDuration: cfg.Vault.BuyerAccessDuration,
			SuccessURL:     cfg.Stripe.SuccessURL,
			CancelURL:      cfg.Stripe.CancelURL,
		},
		log,
	)
	consentService := vaultapp.NewConsentService(consentRepo, propertyRepo)
	notificationService := notificationapp.NewNotificationService(notificationRepo)

	webhookProcessor := billing.NewStripeWebhookProcessor(cfg.Stripe.WebhookSecret, buyerAccessService, log)
	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check stays outside API versioning and authentication
	engine.GET("/health", healthHandler(db))

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/webhooks",
		},
		Logger: log,
	}))

	// SSE delivery of notifications, fed by the Redis changefeed
	sseHandler := handler.NewNotificationSSEHandler(feed, handler.WithSSELogger(log))
	if err := sseHandler.Start(); err != nil {
		log.Fatal("Failed to start SSE handler", zap.Error(err))
	}
	defer sseHandler.Stop()

	handlers := router.Handlers{
		System:        handler.NewSystemHandler(),
		Document:      handler.NewDocumentHandler(documentService),
		Grant:         handler.NewGrantHandler(grantService),
		BuyerAccess:   handler.NewBuyerAccessHandler(buyerAccessService),
		Consent:       handler.NewConsentHandler(consentService),
		Notification:  handler.NewNotificationHandler(notificationService),
		SSE:           sseHandler,
		StripeWebhook: handler.NewStripeWebhookHandler(webhookProcessor),
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.BuildRoutes(handlers) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
