package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	bankingapp "github.com/hospos/backend/internal/application/banking"
	appevent "github.com/hospos/backend/internal/application/event"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/infrastructure/auth"
	"github.com/hospos/backend/internal/infrastructure/cache"
	"github.com/hospos/backend/internal/infrastructure/config"
	"github.com/hospos/backend/internal/infrastructure/event"
	"github.com/hospos/backend/internal/infrastructure/logger"
	"github.com/hospos/backend/internal/infrastructure/notification"
	"github.com/hospos/backend/internal/infrastructure/persistence"
	"github.com/hospos/backend/internal/infrastructure/telemetry"
	"github.com/hospos/backend/internal/interfaces/http/handler"
	"github.com/hospos/backend/internal/interfaces/http/middleware"
	"github.com/hospos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/hospos/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			HosPOS Treasury API
//	@version		1.0
//	@description	Bank ledger and reconciliation backend for the HosPOS back office: bank accounts, append-only ledger, internal transfers, statement reconciliation and the POS payment bridge.
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/hospos/backend
//	@contact.email	support@hospos.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Bridge zap logs to the OTEL collector (if enabled)
	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	if loggerProvider.IsEnabled() {
		log, err = telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, loggerProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Fatal("Failed to create bridged logger", zap.Error(err))
		}
	}

	log.Info("Starting HosPOS Treasury Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Continuous profiling (if enabled)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry tracing (if enabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Metrics export (if enabled)
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Attach database instrumentation
	if cfg.Telemetry.Enabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		if err := telemetry.NewDBTracingPlugin(dbTracingCfg, log).RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
	dbMetricsCfg.Enabled = cfg.Telemetry.MetricsEnabled
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, dbMetricsCfg, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Initialize repositories
	accountRepo := persistence.NewGormBankAccountRepository(db.DB)
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	statementRepo := persistence.NewGormBankStatementRepository(db.DB)
	reconRepo := persistence.NewGormReconciliationRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	sessions := persistence.NewGormSessionManager(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// With the outbox processor enabled, services publish through the outbox
	// table and the processor relays events to the bus. Otherwise events go
	// straight to the in-memory bus.
	var publisher shared.EventPublisher = eventBus

	// Outbox processor relays saved events from the outbox table to the bus
	if cfg.Event.ProcessorEnabled {
		publisher = event.NewOutboxPublisherWithDB(db.DB, eventSerializer)
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Idempotency store for the payment bridge (Redis with in-memory fallback)
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Notification sink for low balance alerts
	alertSink := notification.NewLogSink(log)

	// Initialize application services
	alertService := bankingapp.NewAlertService(accountRepo, sessions, alertSink, publisher, log,
		bankingapp.WithAlertDebounce(cfg.Banking.AlertDebounce),
	)
	ledgerService := bankingapp.NewLedgerService(accountRepo, entryRepo, sessions, publisher, alertService, log)
	accountService := bankingapp.NewAccountService(accountRepo, entryRepo, sessions, publisher, alertService, log)
	transferService := bankingapp.NewTransferService(accountRepo, ledgerService, sessions, alertService, log, cfg.Banking.TransfersEnabled)
	paymentService := bankingapp.NewPaymentService(paymentRepo, accountRepo, ledgerService, sessions, publisher, alertService, log,
		bankingapp.WithPaymentAutoReconcile(cfg.Banking.PaymentAutoReconcile),
	)
	reconciliationService := bankingapp.NewReconciliationService(accountRepo, entryRepo, statementRepo, reconRepo, sessions, publisher, log,
		bankingapp.WithSuggestionWindowDays(cfg.Banking.SuggestionWindowDays),
	)

	// Ledger reconciliation events feed back into payment flags
	paymentReconHandler := bankingapp.NewPaymentReconciliationHandler(paymentRepo, sessions, idempotencyStore, log)
	eventBus.Subscribe(paymentReconHandler)
	log.Info("Payment reconciliation handler registered",
		zap.Strings("events", paymentReconHandler.EventTypes()),
	)

	// Initialize HTTP handlers
	accountHandler := handler.NewBankAccountHandler(accountService, ledgerService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	transferHandler := handler.NewTransferHandler(transferService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
	}
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Profiling.Enabled {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// JWT service used by the auth middleware and swagger protection
	jwtService := auth.NewJWTService(cfg.JWT)

	// Swagger documentation endpoint (gated by config)
	if cfg.Swagger.Enabled {
		swaggerGroup := engine.Group("/swagger")
		swaggerGroup.Use(middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddleware(jwtService)))
		swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Banking domain (accounts, ledger, transfers, statements, payments)
	bankingRoutes := router.NewDomainGroup("banking", "/banking")
	bankingRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "banking service ready"})
	})

	// Bank account routes
	bankingRoutes.POST("/accounts", accountHandler.Create)
	bankingRoutes.GET("/accounts", accountHandler.List)
	bankingRoutes.GET("/accounts/summary", accountHandler.Summary)
	bankingRoutes.GET("/accounts/:id", accountHandler.GetByID)
	bankingRoutes.PUT("/accounts/:id", accountHandler.Update)
	bankingRoutes.DELETE("/accounts/:id", accountHandler.Delete)
	bankingRoutes.PUT("/accounts/:id/alert", accountHandler.ConfigureAlert)
	bankingRoutes.POST("/accounts/:id/activate", accountHandler.Activate)
	bankingRoutes.POST("/accounts/:id/deactivate", accountHandler.Deactivate)
	bankingRoutes.POST("/accounts/:id/adjust", accountHandler.AdjustBalance)
	bankingRoutes.GET("/accounts/:id/verify-balance", accountHandler.VerifyBalance)

	// Ledger routes
	bankingRoutes.POST("/ledger/entries", ledgerHandler.Create)
	bankingRoutes.GET("/ledger/entries", ledgerHandler.List)
	bankingRoutes.GET("/ledger/entries/:id", ledgerHandler.GetByID)
	bankingRoutes.POST("/ledger/entries/:id/reconcile", ledgerHandler.ManualReconcile)

	// Transfer routes
	bankingRoutes.POST("/transfers", transferHandler.Create)

	// Statement and reconciliation routes
	bankingRoutes.POST("/statements", reconciliationHandler.Import)
	bankingRoutes.GET("/statements", reconciliationHandler.ListStatements)
	bankingRoutes.GET("/statements/:id", reconciliationHandler.GetStatement)
	bankingRoutes.POST("/statements/:id/reconcile", reconciliationHandler.Start)
	bankingRoutes.GET("/reconciliations/:id", reconciliationHandler.GetByID)
	bankingRoutes.POST("/reconciliations/:id/match", reconciliationHandler.MatchLine)
	bankingRoutes.POST("/reconciliations/:id/lines/:lineId/unmatch", reconciliationHandler.UnmatchLine)
	bankingRoutes.POST("/reconciliations/:id/complete", reconciliationHandler.Complete)
	bankingRoutes.GET("/reconciliations/:id/suggestions", reconciliationHandler.Suggest)
	bankingRoutes.POST("/reconciliations/:id/repair", reconciliationHandler.Repair)

	// Payment bridge routes
	bankingRoutes.POST("/payments", paymentHandler.Create)
	bankingRoutes.GET("/payments", paymentHandler.List)
	bankingRoutes.GET("/payments/:id", paymentHandler.GetByID)
	bankingRoutes.POST("/payments/:id/confirm", paymentHandler.Confirm)
	bankingRoutes.POST("/payments/:id/refund", paymentHandler.Refund)
	bankingRoutes.POST("/payments/:id/void", paymentHandler.Void)

	// Register domain groups
	r.Register(bankingRoutes)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	outboxHandler := handler.NewOutboxHandler(appevent.NewOutboxService(outboxRepo, log))
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
