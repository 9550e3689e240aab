package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appbilling "github.com/siesson1991/adtracking-saas/internal/application/billing"
	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/domain/identity"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/auth"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/cache"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/config"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/logger"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/marketplace"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/persistence"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/storage"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/telemetry"
	"github.com/siesson1991/adtracking-saas/internal/interfaces/http/handler"
	"github.com/siesson1991/adtracking-saas/internal/interfaces/http/middleware"
	"github.com/siesson1991/adtracking-saas/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/siesson1991/adtracking-saas/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Ad Tracking API
//	@version		1.0
//	@description	Usage-metered event tracking for marketplace order webhooks and ad platforms

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(logger.FromLogConfig(cfg.Log, cfg.App.Name))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry comes first so the bridged logger and global providers are
	// in place before anything else starts
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log := loggerProvider.Bridge(baseLog, zapcore.InfoLevel)
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ad tracking gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracing(cfg.Telemetry, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access connection pool", zap.Error(err))
	}
	if err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("adtracking/db"), sqlDB); err != nil {
		log.Warn("Failed to register connection pool metrics", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	billingAccountRepo := persistence.NewGormBillingAccountRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	webhookEventRepo := persistence.NewGormWebhookEventRepository(db.DB)
	usageCounterRepo := persistence.NewGormUsageCounterRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Billing
	costPerEvent, err := cfg.Billing.CostPerEventDecimal()
	if err != nil {
		log.Fatal("Invalid billing cost per event", zap.Error(err))
	}
	ledgerCfg := appbilling.DefaultUsageLedgerConfig()
	ledgerCfg.CostPerEvent = costPerEvent
	ledger := appbilling.NewUsageLedger(usageCounterRepo, log.Named("usage_ledger"), ledgerCfg)
	gate := appbilling.NewBillingGate(billingAccountRepo, cfg.Billing.FreeQuota, log.Named("billing_gate"))
	usageQuery := appbilling.NewUsageQueryService(ledger, gate)

	// Tracking
	webhookMetrics, err := telemetry.NewWebhookMetrics(meterProvider.Meter("adtracking/webhooks"))
	if err != nil {
		log.Fatal("Failed to create webhook metrics", zap.Error(err))
	}
	processorOpts := []apptracking.WebhookProcessorOption{apptracking.WithOutcomeRecorder(webhookMetrics)}

	if cfg.Webhook.DedupEnabled {
		dedup, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cfg.Webhook, cache.WithLogger(log)).CreateStore()
		if err != nil {
			log.Fatal("Failed to create delivery dedup store", zap.Error(err))
		}
		defer func() {
			if err := dedup.Close(); err != nil {
				log.Warn("Error closing delivery dedup store", zap.Error(err))
			}
		}()
		processorOpts = append(processorOpts, apptracking.WithDeliveryDedup(dedup, cfg.Webhook.DedupTTL))
	}

	if cfg.Archive.Enabled {
		archive, err := storage.NewS3PayloadArchive(ctx, cfg.Archive, storage.WithLogger(log.Named("archive")))
		if err != nil {
			log.Fatal("Failed to create payload archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare payload archive bucket", zap.Error(err))
		}
		processorOpts = append(processorOpts, apptracking.WithPayloadArchive(archive))
		log.Info("Raw payload archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	}

	processor := apptracking.NewWebhookProcessor(
		storeRepo,
		accountRepo,
		webhookEventRepo,
		marketplace.NewDefaultRegistry(),
		txScope,
		ledger,
		log.Named("webhook_processor"),
		processorOpts...,
	)
	tracker := apptracking.NewEventTracker(accountRepo, gate, ledger, txScope, webhookMetrics, log.Named("event_tracker"))
	storeService := apptracking.NewStoreService(storeRepo, webhookEventRepo, log.Named("store_service"))

	handlers := router.Handlers{
		Webhook: handler.NewWebhookHandler(processor, cfg.Webhook.MaxPayloadBytes),
		Event:   handler.NewEventHandler(tracker),
		Usage:   handler.NewUsageHandler(usageQuery),
		Store:   handler.NewStoreHandler(storeService, cfg.Webhook.PublicBaseURL),
		System:  handler.NewSystemHandler(db, version),
	}

	engine, err := newEngine(ctx, cfg, log, meterProvider, profiler.IsEnabled(), handlers,
		auth.NewJWTService(cfg.JWT), accountRepo)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Warn("Logger provider shutdown failed", zap.Error(err))
	}
}

// newEngine assembles the middleware stack and routes
func newEngine(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	meterProvider *telemetry.MeterProvider,
	profiling bool,
	handlers router.Handlers,
	jwtService *auth.JWTService,
	accounts identity.AccountRepository,
) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server spans and attributes
	// 5. Metrics / profiling labels
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())

	httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("adtracking/http"))
	if err != nil {
		return nil, err
	}
	engine.Use(httpMetrics)
	engine.Use(middleware.Profiling(profiling))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go rateLimiter.Run(ctx)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if metricsHandler := meterProvider.Handler(); metricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(metricsHandler))
	}
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:    true,
				AllowedIPs: cfg.Swagger.AllowedIPs,
			}),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	// Health and webhooks are unauthenticated; webhooks enforce their own
	// payload cap so the raw body reaches signature verification untouched
	router.RegisterPublic(engine, handlers)

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(
			middleware.BodyLimit(cfg.HTTP.MaxBodySize),
			middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
				JWTService: jwtService,
				Accounts:   accounts,
				Logger:     log,
			}),
		)
	for _, group := range router.Domains(handlers) {
		r.Register(group)
	}
	r.Setup()

	return engine, nil
}
